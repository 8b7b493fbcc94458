package miniaudio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/smazurov/soundnode/pkg/soundio"
)

// DefaultPollInterval is how often an open connection re-enumerates devices.
const DefaultPollInterval = 2 * time.Second

// maxPollFailures consecutive enumeration errors mean the sound server is gone.
const maxPollFailures = 3

var errNotCompiled = errors.New("miniaudio support not compiled in")

// driver is the audio API that backs a Backend.
type driver interface {
	available(kind soundio.BackendKind) bool
	open(kind soundio.BackendKind) (session, error)
}

// session is an initialized audio API context.
type session interface {
	enumerate() (inputs, outputs []probe, err error)
	close() error
}

// Backend is one miniaudio-driven soundio backend.
type Backend struct {
	kind     soundio.BackendKind
	logger   *slog.Logger
	interval time.Duration
	driver   driver
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithPollInterval sets how often devices are re-enumerated.
func WithPollInterval(d time.Duration) Option {
	return func(b *Backend) {
		if d > 0 {
			b.interval = d
		}
	}
}

// New creates the backend for kind. Kinds that miniaudio cannot drive are
// never available.
func New(kind soundio.BackendKind, opts ...Option) *Backend {
	b := &Backend{
		kind:     kind,
		logger:   slog.Default(),
		interval: DefaultPollInterval,
		driver:   defaultDriver,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Kinds returns the backend kinds this build can drive on this platform, in
// priority order.
func Kinds() []soundio.BackendKind {
	return platformKinds()
}

// Kind implements soundio.Backend.
func (b *Backend) Kind() soundio.BackendKind { return b.kind }

// Available implements soundio.Backend. It initializes and releases an audio
// context, so it reflects whether the sound server is running right now.
func (b *Backend) Available() bool {
	return b.driver != nil && b.driver.available(b.kind)
}

// Open implements soundio.Backend.
func (b *Backend) Open() (soundio.Conn, error) {
	if b.driver == nil {
		return nil, errNotCompiled
	}
	s, err := b.driver.open(b.kind)
	if err != nil {
		return nil, fmt.Errorf("init %s context: %w", b.kind, err)
	}

	inputs, outputs, err := s.enumerate()
	if err != nil {
		if closeErr := s.close(); closeErr != nil {
			b.logger.Debug("Error releasing context", "backend", b.kind, "error", closeErr)
		}
		return nil, fmt.Errorf("enumerate %s devices: %w", b.kind, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{
		Feed:    soundio.NewFeed(),
		backend: b,
		session: s,
		cancel:  cancel,
	}
	c.Connected(convertAll(inputs), convertAll(outputs))
	b.logger.Debug("Devices enumerated", "backend", b.kind, "inputs", len(inputs), "outputs", len(outputs))

	c.wg.Add(1)
	go c.poll(ctx)
	return c, nil
}

func convertAll(probes []probe) []*soundio.Device {
	devices := make([]*soundio.Device, 0, len(probes))
	for _, p := range probes {
		devices = append(devices, toDevice(p))
	}
	return devices
}

type conn struct {
	*soundio.Feed
	backend *Backend
	session session
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

func (c *conn) poll(ctx context.Context) {
	defer c.wg.Done()
	logger := c.backend.logger

	ticker := time.NewTicker(c.backend.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		inputs, outputs, err := c.session.enumerate()
		if err != nil {
			failures++
			logger.Warn("Device enumeration failed", "backend", c.backend.kind, "error", err, "failures", failures)
			if failures >= maxPollFailures {
				c.Lost(err)
				return
			}
			continue
		}
		failures = 0

		if c.Update(convertAll(inputs), convertAll(outputs)) {
			logger.Info("Devices changed", "backend", c.backend.kind, "inputs", len(inputs), "outputs", len(outputs))
		}
	}
}

func (c *conn) Close() error {
	var err error
	c.once.Do(func() {
		c.cancel()
		c.wg.Wait()
		c.Feed.Close()
		err = c.session.close()
	})
	return err
}
