package render

import (
	"io"
	"sync"

	"github.com/smazurov/soundnode/internal/events"
	"github.com/smazurov/soundnode/internal/logging"
)

// Subscriber is satisfied by *events.Bus.
type Subscriber interface {
	Subscribe(handler any) func()
}

// Watcher rewrites the listing every time the device set changes. The
// initial snapshot is not written.
type Watcher struct {
	mu     sync.Mutex
	w      io.Writer
	logger logging.Logger
}

// NewWatcher creates a watcher writing to w.
func NewWatcher(w io.Writer) *Watcher {
	return &Watcher{w: w, logger: logging.GetLogger("render")}
}

// Subscribe attaches the watcher to the bus and returns the unsubscribe func.
func (rw *Watcher) Subscribe(bus Subscriber) func() {
	unsubDevices := bus.Subscribe(rw.onDevicesChanged)
	unsubLost := bus.Subscribe(rw.onBackendDisconnected)
	return func() {
		unsubDevices()
		unsubLost()
	}
}

func (rw *Watcher) onDevicesChanged(ev events.DevicesChangedEvent) {
	if ev.Initial || ev.Snapshot == nil {
		return
	}
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if err := WriteListing(rw.w, ev.Snapshot); err != nil {
		rw.logger.Warn("Failed to write listing", "error", err)
	}
}

func (rw *Watcher) onBackendDisconnected(ev events.BackendDisconnectedEvent) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if _, err := io.WriteString(rw.w, "Backend "+ev.Backend.String()+" disconnected: "+errString(ev.Err)+"\n"); err != nil {
		rw.logger.Warn("Failed to write disconnect notice", "error", err)
	}
}

func errString(err error) string {
	if err == nil {
		return "unknown cause"
	}
	return err.Error()
}
