package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/smazurov/soundnode/internal/api"
	"github.com/smazurov/soundnode/internal/config"
	"github.com/smazurov/soundnode/internal/events"
	"github.com/smazurov/soundnode/internal/logging"
	"github.com/smazurov/soundnode/internal/metrics/collectors"
	"github.com/smazurov/soundnode/internal/metrics/exporters"
	"github.com/smazurov/soundnode/internal/monitor"
	"github.com/smazurov/soundnode/internal/render"
	"github.com/smazurov/soundnode/internal/systemd"
	"github.com/smazurov/soundnode/internal/version"
	"github.com/smazurov/soundnode/pkg/soundio"
)

const (
	defaultConnectTimeout = 10 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// errUsage means the usage text has already been printed.
var errUsage = errors.New("usage")

type app struct {
	opts     *Options
	registry *soundio.Registry
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger

	connectTimeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newApp(opts *Options, registry *soundio.Registry, stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		opts:           opts,
		registry:       registry,
		stdin:          stdin,
		stdout:         stdout,
		stderr:         stderr,
		logger:         logging.GetLogger("main"),
		connectTimeout: defaultConnectTimeout,
	}
}

// run lists devices once, or keeps listing them on every change in watch
// mode.
func (a *app) run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.cancel = cancel
	a.done = make(chan struct{})
	done := a.done
	a.mu.Unlock()
	defer close(done)
	defer cancel()

	kind, err := a.selectBackend()
	if err != nil {
		return err
	}

	sctx := soundio.New(a.registry, soundio.WithLogger(logging.GetLogger("soundio")))
	defer sctx.Disconnect()

	if kind == soundio.BackendNone {
		err = sctx.ConnectDefault()
	} else {
		err = sctx.Connect(kind)
	}
	if errors.Is(err, soundio.ErrNoBackendAvailable) {
		a.usage()
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if err != nil {
		return err
	}
	a.logger.Debug("Connected", "backend", sctx.Backend().String())

	if a.opts.Watch {
		return a.watch(ctx, sctx)
	}

	snap, err := waitSnapshot(ctx, sctx, a.connectTimeout)
	if err != nil {
		return err
	}
	return render.WriteListing(a.stdout, snap)
}

// stop interrupts run and waits for it to clean up.
func (a *app) stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.mu.Unlock()
	if cancel == nil {
		return
	}

	a.logger.Info("Shutting down")
	cancel()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		a.logger.Warn("Shutdown timed out")
	}
}

// selectBackend resolves the --backend option. An unknown name prints the
// usage with the usable backends.
func (a *app) selectBackend() (soundio.BackendKind, error) {
	if a.opts.Backend == "" {
		return soundio.BackendNone, nil
	}
	kind, err := soundio.ParseBackendKind(a.opts.Backend)
	if err != nil || kind == soundio.BackendNone {
		a.usage()
		return soundio.BackendNone, errUsage
	}
	return kind, nil
}

func (a *app) usage() {
	names := make([]string, 0)
	for _, kind := range a.registry.Available() {
		names = append(names, kind.String())
	}
	fmt.Fprintf(a.stderr, "Usage: %s [--watch] [--backend <name>]\n", version.Name)
	fmt.Fprintf(a.stderr, "Available backends: %s\n", strings.Join(names, ", "))
}

// waitSnapshot pumps a fresh connection until the backend has delivered its
// first device list.
func waitSnapshot(ctx context.Context, sctx *soundio.Context, timeout time.Duration) (*soundio.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := sctx.FlushEvents(); err != nil {
		return nil, err
	}
	for sctx.State() == soundio.StateConnecting {
		res, err := sctx.WaitEvents(ctx)
		if err != nil {
			return nil, err
		}
		if res == soundio.WaitTimedOut || res == soundio.WaitCancelled {
			return nil, fmt.Errorf("waiting for %s devices: %w", sctx.Backend(), soundio.ErrCancelled)
		}
	}
	return sctx.Snapshot()
}

// watch runs the monitor until ENTER is pressed, stop is called, or the
// backend goes away.
func (a *app) watch(ctx context.Context, sctx *soundio.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.stdout, "Type [ENTER] to exit.")

	bus := events.New()

	collector := collectors.NewDeviceCollector(bus)
	collector.Start()
	defer collector.Stop()

	unsubRender := render.NewWatcher(a.stdout).Subscribe(bus)
	defer unsubRender()

	notifier := systemd.NewNotifier()
	unsubNotify := notifier.Subscribe(bus)
	defer unsubNotify()
	defer notifier.Stopping()
	go notifier.RunWatchdog(ctx)

	if a.opts.Listen != "" {
		apiOpts := &api.Options{EventBus: bus, Registry: a.registry}
		if a.opts.PrometheusEnabled {
			apiOpts.PrometheusHandler = exporters.HTTPHandler()
		}
		server := api.NewServer(apiOpts)
		if _, err := server.Listen(a.opts.Listen); err != nil {
			return fmt.Errorf("api listen on %s: %w", a.opts.Listen, err)
		}
		go func() {
			if err := server.Serve(); err != nil {
				a.logger.Error("HTTP server failed", "error", err)
			}
		}()
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stopCancel()
			if err := server.Stop(stopCtx); err != nil {
				a.logger.Warn("Error stopping HTTP server", "error", err)
			}
		}()
	}

	if a.opts.Config != "" {
		if w := a.watchConfig(ctx, bus); w != nil {
			defer func() {
				if err := w.Stop(); err != nil {
					a.logger.Debug("Config watcher stop", "error", err)
				}
			}()
		}
	}

	go a.waitEnter(cancel)

	return monitor.New(sctx, bus).Run(ctx)
}

// watchConfig reapplies log levels when the config file changes.
func (a *app) watchConfig(ctx context.Context, bus *events.Bus) *config.Watcher[logging.Config] {
	w := config.NewWatcher(a.opts.Config, config.ReadLoggingConfig, logging.GetLogger("config"))
	w.OnReload(func(cfg logging.Config) {
		logging.SetLevels(cfg.Level, cfg.Modules)
		bus.Publish(events.LogLevelsChangedEvent{
			Level:     cfg.Level,
			Modules:   cfg.Modules,
			Timestamp: time.Now(),
		})
	})
	if err := w.Start(ctx); err != nil {
		a.logger.Warn("Config reload disabled", "path", a.opts.Config, "error", err)
		return nil
	}
	return w
}

// waitEnter cancels the watch when a line is read. EOF, as under a service
// manager, leaves the watch running until a signal arrives.
func (a *app) waitEnter(cancel context.CancelFunc) {
	if a.stdin == nil {
		return
	}
	if _, err := bufio.NewReader(a.stdin).ReadString('\n'); err != nil {
		return
	}
	cancel()
}
