//go:build linux

package hotplug

import "testing"

func TestEventSoundCard(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		card  int
		ok    bool
	}{
		{
			name:  "control node",
			event: Event{Subsystem: SubsystemSound, DevName: "snd/controlC1"},
			card:  1,
			ok:    true,
		},
		{
			name:  "playback pcm node",
			event: Event{Subsystem: SubsystemSound, DevName: "snd/pcmC2D3p"},
			card:  2,
			ok:    true,
		},
		{
			name:  "capture pcm node two digit card",
			event: Event{Subsystem: SubsystemSound, DevName: "snd/pcmC12D0c"},
			card:  12,
			ok:    true,
		},
		{
			name:  "card object from devpath",
			event: Event{Subsystem: SubsystemSound, DevPath: "/devices/pci0000:00/0000:00:14.0/usb1/1-2/1-2:1.0/sound/card3"},
			card:  3,
			ok:    true,
		},
		{
			name:  "card object from kobj",
			event: Event{Subsystem: SubsystemSound, KObj: "/devices/platform/soc/sound/card0"},
			card:  0,
			ok:    true,
		},
		{
			name:  "timer node",
			event: Event{Subsystem: SubsystemSound, DevName: "snd/timer", KObj: "/devices/virtual/sound/timer"},
			ok:    false,
		},
		{
			name:  "other subsystem",
			event: Event{Subsystem: SubsystemUSB, DevName: "snd/controlC0"},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, ok := tt.event.SoundCard()
			if ok != tt.ok || card != tt.card {
				t.Errorf("SoundCard() = (%d, %v), want (%d, %v)", card, ok, tt.card, tt.ok)
			}
		})
	}
}

func TestEventChangesSoundTopology(t *testing.T) {
	tests := []struct {
		action    string
		subsystem string
		expected  bool
	}{
		{ActionAdd, SubsystemSound, true},
		{ActionRemove, SubsystemSound, true},
		{ActionChange, SubsystemSound, true},
		{ActionBind, SubsystemSound, false},
		{ActionAdd, SubsystemUSB, false},
	}

	for _, tt := range tests {
		ev := Event{Action: tt.action, Subsystem: tt.subsystem}
		if got := ev.ChangesSoundTopology(); got != tt.expected {
			t.Errorf("ChangesSoundTopology(%s %s) = %v, want %v", tt.action, tt.subsystem, got, tt.expected)
		}
	}
}

func TestParseUEventSoundCard(t *testing.T) {
	msg := []byte("remove@/devices/pci0000:00/0000:00:14.0/usb1/1-2/1-2:1.0/sound/card1/controlC1\x00" +
		"ACTION=remove\x00SUBSYSTEM=sound\x00DEVNAME=snd/controlC1\x00MAJOR=116\x00MINOR=32\x00")

	ev := ParseUEvent(msg)
	if ev == nil {
		t.Fatal("expected event, got nil")
	}
	if !ev.ChangesSoundTopology() {
		t.Error("expected removal to change sound topology")
	}
	if card, ok := ev.SoundCard(); !ok || card != 1 {
		t.Errorf("SoundCard() = (%d, %v), want (1, true)", card, ok)
	}
}
