package soundio

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Context owns the connection to one backend and the latest device snapshot.
//
// A Context is driven by a single goroutine. Disconnect and Wakeup may also be
// called from other goroutines, which lets a second goroutine stop a blocked
// WaitEvents.
type Context struct {
	registry *Registry
	logger   *slog.Logger

	state    atomic.Int32
	snapshot atomic.Pointer[Snapshot]
	wake     chan struct{}

	mu     sync.Mutex
	kind   BackendKind
	conn   Conn
	cancel chan struct{} // closed when the current connection ends
	gen    uint64

	onDevicesChanged    func()
	onBackendDisconnect func(error)
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a disconnected context over registry.
func New(registry *Registry, opts ...Option) *Context {
	c := &Context{
		registry: registry,
		logger:   slog.Default(),
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the context selects backends from.
func (c *Context) Registry() *Registry { return c.registry }

// State returns the current connection state.
func (c *Context) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// Backend returns the kind of the current or last attempted connection, or
// BackendNone when disconnected.
func (c *Context) Backend() BackendKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

func (c *Context) setState(s ConnectionState) {
	c.state.Store(int32(s))
}

// ConnectDefault tries every available backend in priority order and keeps
// the first one that accepts the connection.
func (c *Context) ConnectDefault() error {
	kinds := c.registry.Available()
	if len(kinds) == 0 {
		return fmt.Errorf("%w: none compiled in or usable", ErrNoBackendAvailable)
	}

	var errs []error
	for _, kind := range kinds {
		err := c.Connect(kind)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrAlreadyConnected) {
			return err
		}
		c.logger.Debug("Backend connect failed, trying next", "backend", kind, "error", err)
		errs = append(errs, err)
	}
	return fmt.Errorf("%w: %w", ErrNoBackendAvailable, errors.Join(errs...))
}

// Connect opens the given backend. On success the context is Connecting until
// the first FlushEvents or WaitEvents processes the backend's connected event.
func (c *Context) Connect(kind BackendKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: cannot connect backend %s", ErrInvalidArgument, kind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.State(); s == StateConnecting || s == StateConnected {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyConnected, c.kind, s)
	}

	backend, ok := c.registry.Lookup(kind)
	if !ok || !backend.Available() {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, kind)
	}

	c.kind = kind
	c.setState(StateConnecting)
	conn, err := backend.Open()
	if err != nil {
		c.setState(StateFailed)
		c.logger.Warn("Backend refused connection", "backend", kind, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrConnectionRefused, kind, err)
	}

	c.conn = conn
	c.cancel = make(chan struct{})
	c.gen++
	c.logger.Debug("Backend opened", "backend", kind)
	return nil
}

// Disconnect closes the connection and releases every backend resource. It is
// safe to call in any state, more than once, and from another goroutine; a
// WaitEvents blocked on this context returns WaitCancelled.
func (c *Context) Disconnect() {
	c.mu.Lock()
	conn, cancel, kind := c.conn, c.cancel, c.kind
	prev := c.State()
	c.conn, c.cancel = nil, nil
	c.kind = BackendNone
	c.gen++
	c.snapshot.Store(nil)
	c.setState(StateDisconnected)
	c.mu.Unlock()

	if cancel != nil {
		close(cancel)
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			c.logger.Warn("Error closing backend", "backend", kind, "error", err)
		}
	}
	if prev != StateDisconnected {
		c.logger.Debug("Disconnected", "backend", kind, "previous_state", prev)
	}
}

// Close disconnects the context. It always returns nil and exists so a
// Context can be used where an io.Closer is expected.
func (c *Context) Close() error {
	c.Disconnect()
	return nil
}

// OnDevicesChanged registers fn to run after the snapshot has been refreshed
// because the backend's devices changed. Only one callback is kept; a new
// registration replaces the previous one and nil removes it.
//
// fn runs on the goroutine calling FlushEvents or WaitEvents and must not call
// Disconnect.
func (c *Context) OnDevicesChanged(fn func()) {
	c.mu.Lock()
	c.onDevicesChanged = fn
	c.mu.Unlock()
}

// OnBackendDisconnect registers fn to run when an established connection is
// lost. The context is Failed by the time fn runs. Only one callback is kept.
func (c *Context) OnBackendDisconnect(fn func(err error)) {
	c.mu.Lock()
	c.onBackendDisconnect = fn
	c.mu.Unlock()
}

// Snapshot returns the current device snapshot.
func (c *Context) Snapshot() (*Snapshot, error) {
	if s := c.State(); s != StateConnected {
		return nil, fmt.Errorf("%w: context is %s", ErrNotConnected, s)
	}
	snap := c.snapshot.Load()
	if snap == nil {
		return nil, fmt.Errorf("%w: no snapshot", ErrNotConnected)
	}
	return snap, nil
}

// InputCount returns the number of input devices in the current snapshot.
func (c *Context) InputCount() (int, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return 0, err
	}
	return snap.InputCount(), nil
}

// OutputCount returns the number of output devices in the current snapshot.
func (c *Context) OutputCount() (int, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return 0, err
	}
	return snap.OutputCount(), nil
}

// InputAt returns input device i of the current snapshot.
func (c *Context) InputAt(i int) (*Device, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Input(i)
}

// OutputAt returns output device i of the current snapshot.
func (c *Context) OutputAt(i int) (*Device, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Output(i)
}
