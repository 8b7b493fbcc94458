package events

import (
	"time"

	"github.com/smazurov/soundnode/pkg/soundio"
)

// Event type constants for kelindar/event.
const (
	TypeDevicesChanged uint32 = iota + 1
	TypeBackendDisconnected
	TypeLogLevelsChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// DevicesChangedEvent carries a new device snapshot. The first one after a
// connection has Initial set.
type DevicesChangedEvent struct {
	Backend   soundio.BackendKind
	Snapshot  *soundio.Snapshot
	Initial   bool
	Timestamp time.Time
}

// Type returns the event type identifier for DevicesChangedEvent.
func (e DevicesChangedEvent) Type() uint32 { return TypeDevicesChanged }

// BackendDisconnectedEvent reports that the connected backend went away.
type BackendDisconnectedEvent struct {
	Backend   soundio.BackendKind
	Err       error
	Timestamp time.Time
}

// Type returns the event type identifier for BackendDisconnectedEvent.
func (e BackendDisconnectedEvent) Type() uint32 { return TypeBackendDisconnected }

// LogLevelsChangedEvent is published after a config reload applied new levels.
type LogLevelsChangedEvent struct {
	Level     string
	Modules   map[string]string
	Timestamp time.Time
}

// Type returns the event type identifier for LogLevelsChangedEvent.
func (e LogLevelsChangedEvent) Type() uint32 { return TypeLogLevelsChanged }
