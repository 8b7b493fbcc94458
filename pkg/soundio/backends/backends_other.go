//go:build !linux

package backends

import "github.com/smazurov/soundnode/pkg/soundio"

func platformBackends(Settings) []soundio.Backend { return nil }
