//go:build linux

// Package alsa is the soundio backend for raw ALSA hardware PCMs. It needs no
// cgo and no sound server: devices are read through kernel ioctls and
// hot-plug is detected from kernel uevents, or from /dev/snd when netlink is
// not permitted.
package alsa

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	alsadev "github.com/smazurov/soundnode/pkg/linuxav/alsa"
	"github.com/smazurov/soundnode/pkg/soundio"
)

// DefaultDebounce is how long the backend waits after the last hot-plug
// signal before re-enumerating. A card appears as a burst of uevents.
const DefaultDebounce = 500 * time.Millisecond

// Backend enumerates ALSA PCMs.
type Backend struct {
	logger   *slog.Logger
	debounce time.Duration
	list     func() ([]alsadev.Device, error)
	watch    func(ctx context.Context, logger *slog.Logger) (*changeSource, error)
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

// WithDebounce sets the hot-plug debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(b *Backend) { b.debounce = d }
}

// New creates the ALSA backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		list:     alsadev.ListAll,
		watch:    openChangeSource,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Kind implements soundio.Backend.
func (b *Backend) Kind() soundio.BackendKind { return soundio.BackendALSA }

// Available reports whether the kernel exposes ALSA devices.
func (b *Backend) Available() bool {
	_, err := os.Stat(alsadev.SoundDir)
	return !errors.Is(err, fs.ErrNotExist)
}

// Open enumerates the PCMs and starts watching for hot-plug.
func (b *Backend) Open() (soundio.Conn, error) {
	devices, err := b.list()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{
		Feed:    soundio.NewFeed(),
		backend: b,
		cancel:  cancel,
	}
	c.Connected(convert(devices))
	b.logger.Debug("ALSA devices enumerated", "pcms", len(devices))

	src, err := b.watch(ctx, b.logger)
	if err != nil {
		b.logger.Warn("ALSA hot-plug detection unavailable", "error", err)
		return c, nil
	}
	c.src = src
	b.logger.Debug("ALSA hot-plug watch started", "source", src.name)

	c.wg.Add(1)
	go c.run(ctx)
	return c, nil
}

type conn struct {
	*soundio.Feed
	backend *Backend
	cancel  context.CancelFunc
	src     *changeSource
	wg      sync.WaitGroup
	once    sync.Once
}

// run re-enumerates once the change signals have been quiet for the
// debounce interval.
func (c *conn) run(ctx context.Context) {
	defer c.wg.Done()
	logger := c.backend.logger

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-c.src.changes:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(c.backend.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			devices, err := c.backend.list()
			if err != nil {
				logger.Warn("ALSA re-enumeration failed", "error", err)
				continue
			}
			if c.Update(convert(devices)) {
				logger.Info("ALSA devices changed", "pcms", len(devices))
			}

		case err := <-c.src.errs:
			logger.Error("ALSA hot-plug watch failed", "source", c.src.name, "error", err)
			c.Lost(err)
			return
		}
	}
}

func (c *conn) Close() error {
	var err error
	c.once.Do(func() {
		c.cancel()
		c.wg.Wait()
		c.Feed.Close()
		if c.src != nil {
			err = c.src.Close()
		}
	})
	return err
}
