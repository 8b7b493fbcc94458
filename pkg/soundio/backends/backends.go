// Package backends assembles the soundio registry for the running platform.
package backends

import (
	"log/slog"
	"time"

	"github.com/smazurov/soundnode/pkg/soundio"
	"github.com/smazurov/soundnode/pkg/soundio/dummy"
	"github.com/smazurov/soundnode/pkg/soundio/miniaudio"
)

// Settings tunes the backends built by Default. Zero values keep each
// backend's own defaults.
type Settings struct {
	Logger *slog.Logger

	// PollInterval is how often sound-server backends re-enumerate.
	PollInterval time.Duration

	// HotplugDebounce coalesces bursts of kernel device events.
	HotplugDebounce time.Duration
}

func (s Settings) logger(kind soundio.BackendKind) *slog.Logger {
	return s.Logger.With("backend", kind.String())
}

// Default returns every backend compiled into this binary. Kinds appear in
// soundio priority order and the dummy backend is always present.
func Default(s Settings) *soundio.Registry {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	var list []soundio.Backend
	for _, kind := range miniaudio.Kinds() {
		list = append(list, miniaudio.New(kind,
			miniaudio.WithLogger(s.logger(kind)),
			miniaudio.WithPollInterval(s.PollInterval)))
	}
	list = append(list, platformBackends(s)...)
	list = append(list, dummy.New())

	return soundio.NewRegistry(list...)
}
