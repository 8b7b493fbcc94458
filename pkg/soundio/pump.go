package soundio

import (
	"context"
	"errors"
	"fmt"
)

// WaitResult tells why WaitEvents returned.
type WaitResult int

// Wait results.
const (
	// WaitEventProcessed means at least one backend event was handled.
	WaitEventProcessed WaitResult = iota
	// WaitTimedOut means the ctx deadline passed with no event.
	WaitTimedOut
	// WaitCancelled means the ctx was cancelled or the context was
	// disconnected while waiting.
	WaitCancelled
	// WaitWoken means Wakeup was called.
	WaitWoken
)

func (r WaitResult) String() string {
	switch r {
	case WaitEventProcessed:
		return "event_processed"
	case WaitTimedOut:
		return "timed_out"
	case WaitCancelled:
		return "cancelled"
	case WaitWoken:
		return "woken"
	default:
		return fmt.Sprintf("WaitResult(%d)", int(r))
	}
}

// Err returns ErrCancelled for WaitCancelled and nil otherwise.
func (r WaitResult) Err() error {
	if r == WaitCancelled {
		return ErrCancelled
	}
	return nil
}

// FlushEvents handles every event the backend has queued and returns without
// blocking. It must be called at least once after Connect before the first
// snapshot is available.
func (c *Context) FlushEvents() error {
	conn, _, gen, err := c.pumpSource()
	if err != nil {
		return err
	}
	c.drain(conn, gen)
	return nil
}

// WaitEvents handles queued events, blocking until at least one arrives. It
// returns early when ctx is done, when the context is disconnected from
// another goroutine, or when Wakeup is called. Use a ctx deadline as the
// timeout.
func (c *Context) WaitEvents(ctx context.Context) (WaitResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, cancel, gen, err := c.pumpSource()
	if err != nil {
		return WaitCancelled, err
	}

	for {
		if applied, stale := c.drain(conn, gen); applied > 0 {
			return WaitEventProcessed, nil
		} else if stale {
			return WaitCancelled, nil
		}

		select {
		case <-conn.Ready():
		case <-cancel:
			return WaitCancelled, nil
		case <-c.wake:
			return WaitWoken, nil
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return WaitTimedOut, nil
			}
			return WaitCancelled, nil
		}
	}
}

// Wakeup makes a blocked WaitEvents return WaitWoken. Safe from any goroutine.
// If nobody is waiting, the next WaitEvents without queued events returns
// immediately.
func (c *Context) Wakeup() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Context) pumpSource() (Conn, <-chan struct{}, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.State(); s != StateConnecting && s != StateConnected {
		return nil, nil, 0, fmt.Errorf("%w: context is %s", ErrNotConnected, s)
	}
	return c.conn, c.cancel, c.gen, nil
}

// drain applies queued events in order and returns how many were applied.
// stale reports that the connection was torn down by another goroutine and
// the rest of the queue was dropped. Callbacks run between events with the
// lock released.
func (c *Context) drain(conn Conn, gen uint64) (applied int, stale bool) {
	for _, ev := range conn.Poll() {
		after, stop, ok := c.apply(ev, gen)
		if !ok {
			return applied, true
		}
		applied++
		if after != nil {
			after()
		}
		if stop {
			break
		}
	}
	return applied, false
}

// apply updates state for one event. It returns the work to run once the
// lock is released and whether the remaining events must be dropped. ok is
// false when the event belongs to a connection that is already gone.
func (c *Context) apply(ev Event, gen uint64) (after func(), stop, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return nil, true, false
	}

	switch ev.Kind {
	case EventConnected:
		if c.State() != StateConnecting {
			return nil, false, true
		}
		c.refreshLocked()
		c.setState(StateConnected)
		snap := c.snapshot.Load()
		c.logger.Info("Backend connected",
			"backend", c.kind,
			"inputs", snap.InputCount(),
			"outputs", snap.OutputCount())
		return nil, false, true

	case EventDevicesChanged:
		if c.State() != StateConnected {
			return nil, false, true
		}
		c.refreshLocked()
		snap := c.snapshot.Load()
		c.logger.Debug("Devices changed",
			"backend", c.kind,
			"inputs", snap.InputCount(),
			"outputs", snap.OutputCount())
		return c.onDevicesChanged, false, true

	case EventBackendLost:
		conn, cancel, kind := c.conn, c.cancel, c.kind
		cb := c.onBackendDisconnect
		c.conn, c.cancel = nil, nil
		c.gen++
		c.snapshot.Store(nil)
		c.setState(StateFailed)
		c.logger.Warn("Backend connection lost", "backend", kind, "error", ev.Err)
		return func() {
			if cancel != nil {
				close(cancel)
			}
			if conn != nil {
				if err := conn.Close(); err != nil {
					c.logger.Debug("Error closing lost backend", "backend", kind, "error", err)
				}
			}
			if cb != nil {
				cb(ev.Err)
			}
		}, true, true

	default:
		c.logger.Debug("Ignoring unknown backend event", "kind", ev.Kind)
		return nil, false, true
	}
}

func (c *Context) refreshLocked() {
	inputs, outputs := c.conn.Devices()
	c.snapshot.Store(newSnapshot(c.kind, inputs, outputs))
}
