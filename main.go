package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/soundnode/cmd"
	"github.com/smazurov/soundnode/internal/config"
	"github.com/smazurov/soundnode/internal/logging"
	"github.com/smazurov/soundnode/internal/version"
	"github.com/smazurov/soundnode/pkg/soundio"
	"github.com/smazurov/soundnode/pkg/soundio/backends"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"soundnode.toml"`

	// Device settings
	Backend         string `help:"Backend to connect to; empty tries each available backend in priority order" short:"b" toml:"soundio.backend" env:"BACKEND"`
	Watch           bool   `help:"Keep running and print the device list every time it changes" short:"w" toml:"soundio.watch" env:"WATCH"`
	ConnectTimeout  string `help:"How long to wait for the first device list" default:"10s" toml:"soundio.connect_timeout" env:"CONNECT_TIMEOUT"`
	PollInterval    string `help:"Re-enumeration interval for sound server backends" default:"2s" toml:"soundio.poll_interval" env:"POLL_INTERVAL"`
	HotplugDebounce string `help:"Quiet period after an ALSA hot-plug event before re-enumerating" default:"500ms" toml:"soundio.hotplug_debounce" env:"HOTPLUG_DEBOUNCE"`

	// Server settings, watch mode only
	Listen            string `help:"HTTP address for the API while watching; empty disables it" short:"l" toml:"server.listen" env:"SERVER_LISTEN"`
	PrometheusEnabled bool   `help:"Serve Prometheus metrics on /metrics" default:"true" toml:"metrics.prometheus_enabled" env:"METRICS_PROMETHEUS_ENABLED"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSoundio string `help:"Backend logging level" toml:"logging.soundio" env:"LOGGING_SOUNDIO"`
	LoggingMonitor string `help:"Device monitor logging level" toml:"logging.monitor" env:"LOGGING_MONITOR"`
	LoggingAPI     string `help:"API logging level" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingMetrics string `help:"Metrics logging level" toml:"logging.metrics" env:"LOGGING_METRICS"`
	LoggingConfig  string `help:"Config reload logging level" toml:"logging.config" env:"LOGGING_CONFIG"`
}

// loggingConfig maps the flat options onto per-module levels. Unset modules
// follow the global level.
func (o *Options) loggingConfig() logging.Config {
	modules := map[string]string{}
	for module, level := range map[string]string{
		"soundio": o.LoggingSoundio,
		"monitor": o.LoggingMonitor,
		"api":     o.LoggingAPI,
		"http":    o.LoggingHTTP,
		"metrics": o.LoggingMetrics,
		"config":  o.LoggingConfig,
	} {
		if level != "" {
			modules[module] = level
		}
	}
	return logging.Config{Level: o.LoggingLevel, Format: o.LoggingFormat, Modules: modules}
}

func parseDuration(logger *slog.Logger, name, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn("Invalid duration, using default", "option", name, "value", value, "default", fallback)
		return fallback
	}
	return d
}

func main() {
	var cli humacli.CLI
	var registry *soundio.Registry

	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(opts.loggingConfig())
		logger := logging.GetLogger("main")

		registry = backends.Default(backends.Settings{
			Logger:          logging.GetLogger("soundio"),
			PollInterval:    parseDuration(logger, "poll-interval", opts.PollInterval, 0),
			HotplugDebounce: parseDuration(logger, "hotplug-debounce", opts.HotplugDebounce, 0),
		})

		a := newApp(opts, registry, os.Stdin, os.Stdout, os.Stderr)
		a.connectTimeout = parseDuration(logger, "connect-timeout", opts.ConnectTimeout, defaultConnectTimeout)

		hooks.OnStart(func() {
			if err := a.run(); err != nil {
				if !errors.Is(err, errUsage) {
					logger.Error("Device listing failed", "error", err)
				}
				os.Exit(1)
			}
		})

		hooks.OnStop(a.stop)
	})

	cli.Root().Use = version.Name
	cli.Root().Short = "List audio devices and watch for changes"
	cli.Root().Version = version.Get().String()

	cli.Root().AddCommand(cmd.CreateBackendsCmd(func() *soundio.Registry { return registry }))

	cli.Run()
}
