// Package monitor pumps a soundio context and republishes its notifications
// on the event bus.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smazurov/soundnode/internal/events"
	"github.com/smazurov/soundnode/internal/logging"
	"github.com/smazurov/soundnode/pkg/soundio"
)

// ErrBackendLost is returned by Run when the backend connection went away.
var ErrBackendLost = errors.New("backend connection lost")

// Publisher is satisfied by *events.Bus.
type Publisher interface {
	Publish(ev events.Event)
}

// Monitor owns the pump goroutine of one soundio context.
type Monitor struct {
	sctx   *soundio.Context
	bus    Publisher
	logger logging.Logger
	now    func() time.Time

	lost    error
	initial bool
}

// New creates a monitor for a context that has been connected but not yet
// pumped.
func New(sctx *soundio.Context, bus Publisher) *Monitor {
	return &Monitor{
		sctx:   sctx,
		bus:    bus,
		logger: logging.GetLogger("monitor"),
		now:    time.Now,
	}
}

// Run publishes the initial snapshot and then one DevicesChangedEvent per
// topology change until ctx is done, the context is disconnected from
// another goroutine, or the backend is lost. Run must be the only goroutine
// pumping the context. It returns nil when stopped by ctx or Disconnect, and
// an error wrapping ErrBackendLost when the backend went away.
func (m *Monitor) Run(ctx context.Context) error {
	m.sctx.OnDevicesChanged(m.devicesChanged)
	m.sctx.OnBackendDisconnect(m.backendLost)
	defer func() {
		m.sctx.OnDevicesChanged(nil)
		m.sctx.OnBackendDisconnect(nil)
	}()

	if err := m.sctx.FlushEvents(); err != nil {
		return err
	}
	m.publishInitial()

	m.logger.Info("Watching devices", "backend", m.sctx.Backend().String())
	for {
		if m.lost != nil {
			return fmt.Errorf("%w: %w", ErrBackendLost, m.lost)
		}

		res, err := m.sctx.WaitEvents(ctx)
		if err != nil {
			// Disconnected between two waits
			if m.sctx.State() == soundio.StateDisconnected {
				return nil
			}
			return err
		}

		switch res {
		case soundio.WaitEventProcessed:
			m.publishInitial()
		case soundio.WaitCancelled:
			if m.lost != nil {
				continue
			}
			m.logger.Debug("Device watch stopped")
			return nil
		case soundio.WaitTimedOut:
			m.logger.Debug("Device watch deadline reached")
			return nil
		case soundio.WaitWoken:
		}
	}
}

// publishInitial publishes the first snapshot once the context is connected.
func (m *Monitor) publishInitial() {
	if m.initial {
		return
	}
	snap, err := m.sctx.Snapshot()
	if err != nil {
		return
	}
	m.initial = true
	m.publish(snap, true)
}

func (m *Monitor) devicesChanged() {
	snap, err := m.sctx.Snapshot()
	if err != nil {
		m.logger.Warn("Devices changed but no snapshot", "error", err)
		return
	}
	m.logger.Info("Devices changed", "inputs", snap.InputCount(), "outputs", snap.OutputCount())
	m.publish(snap, false)
}

func (m *Monitor) publish(snap *soundio.Snapshot, initial bool) {
	m.bus.Publish(events.DevicesChangedEvent{
		Backend:   snap.Backend(),
		Snapshot:  snap,
		Initial:   initial,
		Timestamp: m.now(),
	})
}

func (m *Monitor) backendLost(err error) {
	if err == nil {
		err = errors.New("no cause reported")
	}
	m.lost = err
	backend := m.sctx.Backend()
	m.logger.Error("Backend disconnected", "backend", backend.String(), "error", err)
	m.bus.Publish(events.BackendDisconnectedEvent{
		Backend:   backend,
		Err:       err,
		Timestamp: m.now(),
	})
}
