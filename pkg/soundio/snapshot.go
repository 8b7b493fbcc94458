package soundio

import (
	"fmt"
	"time"
)

// Snapshot is an immutable capture of a backend's devices. A new Snapshot is
// built on every refresh; existing ones are never modified.
type Snapshot struct {
	backend  BackendKind
	captured time.Time
	inputs   []*Device
	outputs  []*Device
}

// newSnapshot deep-copies the provider's devices so later provider updates
// cannot reach into the snapshot. Aim is forced to match the list.
func newSnapshot(kind BackendKind, inputs, outputs []*Device) *Snapshot {
	s := &Snapshot{
		backend:  kind,
		captured: time.Now(),
		inputs:   make([]*Device, 0, len(inputs)),
		outputs:  make([]*Device, 0, len(outputs)),
	}
	for _, d := range inputs {
		if d == nil {
			continue
		}
		c := d.clone()
		c.Aim = AimInput
		s.inputs = append(s.inputs, c)
	}
	for _, d := range outputs {
		if d == nil {
			continue
		}
		c := d.clone()
		c.Aim = AimOutput
		s.outputs = append(s.outputs, c)
	}
	return s
}

// Backend returns the backend the snapshot was taken from.
func (s *Snapshot) Backend() BackendKind { return s.backend }

// CapturedAt returns when the snapshot was taken.
func (s *Snapshot) CapturedAt() time.Time { return s.captured }

// InputCount returns the number of input devices.
func (s *Snapshot) InputCount() int { return len(s.inputs) }

// OutputCount returns the number of output devices.
func (s *Snapshot) OutputCount() int { return len(s.outputs) }

// Input returns the input device at index i.
func (s *Snapshot) Input(i int) (*Device, error) {
	return deviceAt(s.inputs, i, AimInput)
}

// Output returns the output device at index i.
func (s *Snapshot) Output(i int) (*Device, error) {
	return deviceAt(s.outputs, i, AimOutput)
}

// Inputs returns the input devices. The slice is a copy; the devices are shared
// and must not be modified.
func (s *Snapshot) Inputs() []*Device {
	return append([]*Device(nil), s.inputs...)
}

// Outputs returns the output devices. The slice is a copy; the devices are
// shared and must not be modified.
func (s *Snapshot) Outputs() []*Device {
	return append([]*Device(nil), s.outputs...)
}

// DefaultInputIndex returns the index of the default input device, or -1.
func (s *Snapshot) DefaultInputIndex() int { return defaultIndex(s.inputs) }

// DefaultOutputIndex returns the index of the default output device, or -1.
func (s *Snapshot) DefaultOutputIndex() int { return defaultIndex(s.outputs) }

func deviceAt(list []*Device, i int, aim DeviceAim) (*Device, error) {
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("%w: %s device %d of %d", ErrIndexOutOfRange, aim, i, len(list))
	}
	return list[i], nil
}

func defaultIndex(list []*Device) int {
	for i, d := range list {
		if d.IsDefault {
			return i
		}
	}
	if len(list) > 0 && !list[0].IsRaw {
		return 0
	}
	return -1
}
