//go:build linux

package hotplug

import (
	"path"
	"strconv"
	"strings"
)

// SoundCard returns the ALSA card number an event refers to. It understands
// device nodes ("snd/controlC1", "snd/pcmC1D0p") and card objects
// (".../sound/card1").
func (e Event) SoundCard() (int, bool) {
	if e.Subsystem != SubsystemSound {
		return 0, false
	}

	if e.DevName != "" {
		base := path.Base(e.DevName)
		for _, prefix := range []string{"controlC", "pcmC", "hwC", "midiC"} {
			rest, ok := strings.CutPrefix(base, prefix)
			if !ok {
				continue
			}
			end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
			if end < 0 {
				end = len(rest)
			}
			if n, err := strconv.Atoi(rest[:end]); err == nil {
				return n, true
			}
		}
	}

	obj := e.DevPath
	if obj == "" {
		obj = e.KObj
	}
	if rest, ok := strings.CutPrefix(path.Base(obj), "card"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ChangesSoundTopology reports whether the event can add, remove or alter an
// ALSA PCM.
func (e Event) ChangesSoundTopology() bool {
	if e.Subsystem != SubsystemSound {
		return false
	}
	switch e.Action {
	case ActionAdd, ActionRemove, ActionChange:
		return true
	default:
		return false
	}
}
