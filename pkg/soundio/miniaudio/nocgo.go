//go:build !cgo || noaudio

package miniaudio

import "github.com/smazurov/soundnode/pkg/soundio"

var defaultDriver driver

func platformKinds() []soundio.BackendKind { return nil }
