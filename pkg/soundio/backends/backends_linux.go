//go:build linux

package backends

import (
	"github.com/smazurov/soundnode/pkg/soundio"
	"github.com/smazurov/soundnode/pkg/soundio/alsa"
)

func platformBackends(s Settings) []soundio.Backend {
	opts := []alsa.Option{alsa.WithLogger(s.logger(soundio.BackendALSA))}
	if s.HotplugDebounce > 0 {
		opts = append(opts, alsa.WithDebounce(s.HotplugDebounce))
	}
	return []soundio.Backend{alsa.New(opts...)}
}
