// Package systemd reports service readiness and health over the sd_notify
// socket. Outside a Type=notify unit every call is a no-op.
package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/smazurov/soundnode/internal/events"
	"github.com/smazurov/soundnode/internal/logging"
)

// Subscriber is satisfied by *events.Bus.
type Subscriber interface {
	Subscribe(handler any) func()
}

// Notifier turns device events into READY, STATUS and WATCHDOG messages.
type Notifier struct {
	notify   func(state string) (bool, error)
	watchdog func() (time.Duration, error)
	logger   *slog.Logger

	mu    sync.Mutex
	ready bool
}

// NewNotifier creates a notifier talking to the socket in NOTIFY_SOCKET.
func NewNotifier() *Notifier {
	return &Notifier{
		notify:   func(state string) (bool, error) { return daemon.SdNotify(false, state) },
		watchdog: func() (time.Duration, error) { return daemon.SdWatchdogEnabled(false) },
		logger:   logging.GetLogger("systemd"),
	}
}

// Subscribe attaches the notifier to the bus and returns the unsubscribe func.
func (n *Notifier) Subscribe(bus Subscriber) func() {
	unsubDevices := bus.Subscribe(n.onDevicesChanged)
	unsubLost := bus.Subscribe(n.onBackendDisconnected)
	return func() {
		unsubDevices()
		unsubLost()
	}
}

func (n *Notifier) onDevicesChanged(e events.DevicesChangedEvent) {
	if e.Snapshot == nil {
		return
	}
	status := fmt.Sprintf("STATUS=%s: %d inputs, %d outputs", e.Backend, e.Snapshot.InputCount(), e.Snapshot.OutputCount())

	n.mu.Lock()
	first := !n.ready
	n.ready = true
	n.mu.Unlock()

	if first {
		n.send(daemon.SdNotifyReady + "\n" + status)
		return
	}
	n.send(status)
}

func (n *Notifier) onBackendDisconnected(e events.BackendDisconnectedEvent) {
	n.send(fmt.Sprintf("STATUS=%s disconnected: %v", e.Backend, e.Err))
}

// Stopping tells systemd the service is shutting down.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

// RunWatchdog pings the watchdog at half the configured interval until ctx
// is done. It returns at once when the unit has no WatchdogSec.
func (n *Notifier) RunWatchdog(ctx context.Context) {
	interval, err := n.watchdog()
	if err != nil {
		n.logger.Warn("Invalid watchdog configuration", "error", err)
		return
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	n.logger.Debug("Watchdog enabled", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.send(daemon.SdNotifyWatchdog)
		}
	}
}

func (n *Notifier) send(state string) {
	sent, err := n.notify(state)
	if err != nil {
		n.logger.Warn("sd_notify failed", "error", err)
		return
	}
	if sent {
		n.logger.Debug("Notified systemd", "state", state)
	}
}
