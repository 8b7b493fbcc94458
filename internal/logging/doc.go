// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stderr when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// Stdout is left to the device listing.
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"monitor": "debug",  // Per-module overrides
//			"alsa":    "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("monitor")
//	logger.Info("Watching devices", "backend", "Alsa")
//
// Levels can be changed while running, for example after the config file
// changed:
//
//	logging.SetLevels("debug", map[string]string{"alsa": "info"})
//
// # Viewing Logs
//
//	journalctl -t soundnode -f
//	journalctl -t soundnode MODULE=monitor
//	journalctl -t soundnode BACKEND=Alsa
//
// # Configuration
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	monitor = "debug"
//	alsa = "warn"
package logging
