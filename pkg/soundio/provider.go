package soundio

import (
	"strconv"
	"strings"
	"sync"
)

// Backend is implemented once per backend kind. The Context depends only on
// this interface.
type Backend interface {
	// Kind identifies the backend.
	Kind() BackendKind

	// Available reports whether the backend can be used on this system.
	Available() bool

	// Open connects to the backend. The returned Conn must queue an
	// EventConnected before any other event.
	Open() (Conn, error)
}

// Conn is an open connection to a backend.
type Conn interface {
	// Poll removes and returns the queued events in delivery order.
	// It never blocks.
	Poll() []Event

	// Ready receives a value whenever new events have been queued.
	Ready() <-chan struct{}

	// Devices returns the backend's current device lists.
	Devices() (inputs, outputs []*Device)

	// Close releases every backend resource.
	Close() error
}

// EventKind distinguishes backend events.
type EventKind int

// Backend event kinds.
const (
	EventConnected EventKind = iota + 1
	EventDevicesChanged
	EventBackendLost
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDevicesChanged:
		return "devices_changed"
	case EventBackendLost:
		return "backend_lost"
	default:
		return "EventKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Event is a notification queued by a backend.
type Event struct {
	Kind EventKind
	// Err carries the cause of EventBackendLost.
	Err error
}

// Feed is a goroutine-safe event queue and device cache that backends embed to
// implement Conn. Backend goroutines report device lists with Connected and
// Update; the pump drains them with Poll.
type Feed struct {
	mu        sync.Mutex
	queue     []Event
	ready     chan struct{}
	inputs    []*Device
	outputs   []*Device
	topology  string
	connected bool
	closed    bool
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{ready: make(chan struct{}, 1)}
}

// Connected stores the initial device lists and queues EventConnected.
// Calls after the first are treated as Update.
func (f *Feed) Connected(inputs, outputs []*Device) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	if f.connected {
		f.updateLocked(inputs, outputs)
		return
	}
	f.connected = true
	f.inputs, f.outputs = inputs, outputs
	f.topology = fingerprint(inputs, outputs)
	f.pushLocked(Event{Kind: EventConnected})
}

// Update stores new device lists and queues EventDevicesChanged when they
// differ from the previous ones. Before Connected it only stores the lists.
// It reports whether a change was queued.
func (f *Feed) Update(inputs, outputs []*Device) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	return f.updateLocked(inputs, outputs)
}

func (f *Feed) updateLocked(inputs, outputs []*Device) bool {
	fp := fingerprint(inputs, outputs)
	changed := fp != f.topology
	f.inputs, f.outputs, f.topology = inputs, outputs, fp
	if !changed || !f.connected {
		return false
	}
	f.pushLocked(Event{Kind: EventDevicesChanged})
	return true
}

// Lost queues EventBackendLost. Later updates are ignored.
func (f *Feed) Lost(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	f.pushLocked(Event{Kind: EventBackendLost, Err: err})
}

// Close stops the feed from accepting events and drops the queue.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.queue = nil
}

// Poll implements Conn.
func (f *Feed) Poll() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	events := f.queue
	f.queue = nil
	return events
}

// Ready implements Conn.
func (f *Feed) Ready() <-chan struct{} {
	return f.ready
}

// Devices implements Conn.
func (f *Feed) Devices() (inputs, outputs []*Device) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.inputs, f.outputs
}

func (f *Feed) pushLocked(ev Event) {
	f.queue = append(f.queue, ev)
	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// fingerprint captures what makes two device lists topologically different:
// identity, name and default flag of every device, in order.
func fingerprint(inputs, outputs []*Device) string {
	var sb strings.Builder
	write := func(prefix byte, list []*Device) {
		for _, d := range list {
			if d == nil {
				continue
			}
			sb.WriteByte(prefix)
			sb.WriteString(d.ID)
			sb.WriteByte(0)
			sb.WriteString(d.Name)
			sb.WriteByte(0)
			if d.IsDefault {
				sb.WriteByte('*')
			}
			if d.IsRaw {
				sb.WriteByte('r')
			}
			sb.WriteByte('\n')
		}
	}
	write('i', inputs)
	write('o', outputs)
	return sb.String()
}
