// Package dummy provides an in-memory soundio backend whose devices are
// controlled by the caller. It is always available and is the last-resort
// backend of the default registry; tests use it to simulate hot-plug.
package dummy

import (
	"errors"
	"sync"
	"time"

	"github.com/smazurov/soundnode/pkg/soundio"
)

// ErrLost is the error reported by Fail when none is given.
var ErrLost = errors.New("dummy backend lost")

// Backend is a controllable soundio backend.
type Backend struct {
	kind soundio.BackendKind

	mu        sync.Mutex
	available bool
	refuse    error
	inputs    []*soundio.Device
	outputs   []*soundio.Device
	conns     map[*conn]struct{}
}

// Option configures a Backend.
type Option func(*Backend)

// WithDevices replaces the default device set.
func WithDevices(inputs, outputs []*soundio.Device) Option {
	return func(b *Backend) {
		b.inputs = append([]*soundio.Device(nil), inputs...)
		b.outputs = append([]*soundio.Device(nil), outputs...)
	}
}

// WithKind makes the backend report another kind. Used to stand in for real
// backends in tests.
func WithKind(kind soundio.BackendKind) Option {
	return func(b *Backend) { b.kind = kind }
}

// Unavailable makes the backend report itself as unusable.
func Unavailable() Option {
	return func(b *Backend) { b.available = false }
}

// New creates a backend holding one input and one output device.
func New(opts ...Option) *Backend {
	b := &Backend{
		kind:      soundio.BackendDummy,
		available: true,
		inputs:    []*soundio.Device{NewDevice("dummy-in", "Dummy Input Device", soundio.AimInput)},
		outputs:   []*soundio.Device{NewDevice("dummy-out", "Dummy Output Device", soundio.AimOutput)},
		conns:     make(map[*conn]struct{}),
	}
	b.inputs[0].IsDefault = true
	b.outputs[0].IsDefault = true
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewDevice builds a device with the capabilities of a generic software
// device: every builtin layout, every format, 8 kHz to 5.6448 MHz.
func NewDevice(id, name string, aim soundio.DeviceAim) *soundio.Device {
	stereo, _ := soundio.DefaultLayout(2)
	formats := make([]soundio.Format, 0, int(soundio.FormatFloat64BE))
	for f := soundio.FormatS8; f <= soundio.FormatFloat64BE; f++ {
		formats = append(formats, f)
	}
	return &soundio.Device{
		ID:                     id,
		Name:                   name,
		Aim:                    aim,
		CurrentLayout:          stereo,
		Layouts:                soundio.BuiltinLayouts(),
		CurrentFormat:          soundio.FormatFloat32LE,
		Formats:                formats,
		SampleRates:            []soundio.SampleRateRange{{Min: 8000, Max: 5644800}},
		SampleRateCurrent:      48000,
		SoftwareLatencyCurrent: 100 * time.Millisecond,
		SoftwareLatencyMin:     10 * time.Millisecond,
		SoftwareLatencyMax:     4 * time.Second,
	}
}

// Kind implements soundio.Backend.
func (b *Backend) Kind() soundio.BackendKind { return b.kind }

// Available implements soundio.Backend.
func (b *Backend) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

// SetAvailable changes what Available reports.
func (b *Backend) SetAvailable(available bool) {
	b.mu.Lock()
	b.available = available
	b.mu.Unlock()
}

// Refuse makes subsequent Open calls fail with err. A nil err accepts
// connections again.
func (b *Backend) Refuse(err error) {
	b.mu.Lock()
	b.refuse = err
	b.mu.Unlock()
}

// Open implements soundio.Backend.
func (b *Backend) Open() (soundio.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.refuse != nil {
		return nil, b.refuse
	}
	c := &conn{Feed: soundio.NewFeed(), backend: b}
	c.Connected(b.listsLocked())
	b.conns[c] = struct{}{}
	return c, nil
}

// OpenConns returns the number of connections not yet closed.
func (b *Backend) OpenConns() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns)
}

// AddDevice plugs in a device; its Aim selects the list.
func (b *Backend) AddDevice(d *soundio.Device) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if d.Aim == soundio.AimOutput {
		b.outputs = append(b.outputs, d)
	} else {
		b.inputs = append(b.inputs, d)
	}
	b.publishLocked()
}

// RemoveDevice unplugs the device with the given ID from either list.
func (b *Backend) RemoveDevice(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	var removed bool
	b.inputs, removed = without(b.inputs, id)
	if !removed {
		b.outputs, removed = without(b.outputs, id)
	}
	if removed {
		b.publishLocked()
	}
	return removed
}

// SetDefault marks the device with the given ID as the default for its aim.
func (b *Backend) SetDefault(aim soundio.DeviceAim, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.inputs
	if aim == soundio.AimOutput {
		list = b.outputs
	}
	for i, d := range list {
		c := *d
		c.IsDefault = d.ID == id
		list[i] = &c
	}
	b.publishLocked()
}

// Fail drops every open connection as if the backend had gone away.
func (b *Backend) Fail(err error) {
	if err == nil {
		err = ErrLost
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for c := range b.conns {
		c.Lost(err)
	}
}

func (b *Backend) listsLocked() (inputs, outputs []*soundio.Device) {
	return append([]*soundio.Device(nil), b.inputs...), append([]*soundio.Device(nil), b.outputs...)
}

func (b *Backend) publishLocked() {
	for c := range b.conns {
		c.Update(b.listsLocked())
	}
}

func without(list []*soundio.Device, id string) ([]*soundio.Device, bool) {
	for i, d := range list {
		if d.ID == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

type conn struct {
	*soundio.Feed
	backend *Backend
	once    sync.Once
}

func (c *conn) Close() error {
	c.once.Do(func() {
		c.Feed.Close()
		c.backend.mu.Lock()
		delete(c.backend.conns, c)
		c.backend.mu.Unlock()
	})
	return nil
}
