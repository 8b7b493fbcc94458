//go:build linux

package alsa

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	alsadev "github.com/smazurov/soundnode/pkg/linuxav/alsa"
	"github.com/smazurov/soundnode/pkg/soundio"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pch(num int, stream alsadev.Stream) alsadev.Device {
	return alsadev.Device{
		Card:          0,
		CardID:        "PCH",
		CardName:      "HDA Intel PCH",
		Number:        num,
		Name:          "ALC892 Analog",
		Stream:        stream,
		HWName:        alsadev.HWName(0, num),
		MinRate:       44100,
		MaxRate:       192000,
		MinChannels:   2,
		MaxChannels:   8,
		Formats:       []int{alsadev.FormatS16LE, alsadev.FormatS32LE, alsadev.FormatMuLaw},
		MinBufferSize: 64,
		MaxBufferSize: 65536,
	}
}

type fakeSystem struct {
	mu      sync.Mutex
	devices []alsadev.Device
	changes chan struct{}
	errs    chan error
}

func newFakeSystem(devices ...alsadev.Device) *fakeSystem {
	return &fakeSystem{
		devices: devices,
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
	}
}

func (f *fakeSystem) set(devices ...alsadev.Device) {
	f.mu.Lock()
	f.devices = devices
	f.mu.Unlock()
	f.changes <- struct{}{}
}

func (f *fakeSystem) list() ([]alsadev.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]alsadev.Device(nil), f.devices...), nil
}

func (f *fakeSystem) watch(context.Context, *slog.Logger) (*changeSource, error) {
	return &changeSource{name: "fake", changes: f.changes, errs: f.errs}, nil
}

func (f *fakeSystem) backend() *Backend {
	b := New(WithLogger(testLogger()), WithDebounce(5*time.Millisecond))
	b.list = f.list
	b.watch = f.watch
	return b
}

func waitEvents(t *testing.T, c soundio.Conn) []soundio.Event {
	t.Helper()
	select {
	case <-c.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for backend event")
	}
	return c.Poll()
}

func TestBackend_OpenEnumerates(t *testing.T) {
	sys := newFakeSystem(pch(0, alsadev.StreamPlayback), pch(0, alsadev.StreamCapture), pch(3, alsadev.StreamPlayback))
	c, err := sys.backend().Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()

	events := waitEvents(t, c)
	if len(events) != 1 || events[0].Kind != soundio.EventConnected {
		t.Fatalf("expected a single connected event, got %v", events)
	}

	inputs, outputs := c.Devices()
	if len(inputs) != 1 || len(outputs) != 2 {
		t.Fatalf("expected 1 input and 2 outputs, got %d and %d", len(inputs), len(outputs))
	}
	if !outputs[0].IsDefault || outputs[1].IsDefault {
		t.Error("expected only the first output to be default")
	}
	if outputs[1].ID != "hw:CARD=PCH,DEV=3" {
		t.Errorf("unexpected ID %q", outputs[1].ID)
	}
}

func TestBackend_HotplugUpdates(t *testing.T) {
	sys := newFakeSystem(pch(0, alsadev.StreamPlayback))
	c, err := sys.backend().Open()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	waitEvents(t, c)

	usb := alsadev.Device{
		Card: 1, CardID: "Headset", CardName: "USB Headset", Number: 0, Name: "USB Audio",
		Stream: alsadev.StreamCapture, HWName: "hw:1,0",
		MinRate: 48000, MaxRate: 48000, MinChannels: 1, MaxChannels: 1,
		Formats: []int{alsadev.FormatS16LE},
	}
	sys.set(pch(0, alsadev.StreamPlayback), usb)

	events := waitEvents(t, c)
	if len(events) != 1 || events[0].Kind != soundio.EventDevicesChanged {
		t.Fatalf("expected a devices-changed event, got %v", events)
	}
	inputs, _ := c.Devices()
	if len(inputs) != 1 || inputs[0].Name != "USB Headset, USB Audio" {
		t.Fatalf("expected the USB headset input, got %v", inputs)
	}
}

func TestBackend_WatchFailureLosesBackend(t *testing.T) {
	sys := newFakeSystem(pch(0, alsadev.StreamPlayback))
	c, err := sys.backend().Open()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	waitEvents(t, c)

	cause := errors.New("socket closed")
	sys.errs <- cause

	events := waitEvents(t, c)
	if len(events) != 1 || events[0].Kind != soundio.EventBackendLost || !errors.Is(events[0].Err, cause) {
		t.Fatalf("expected backend-lost with cause, got %v", events)
	}
}

func TestBackend_OpenListError(t *testing.T) {
	b := New(WithLogger(testLogger()))
	b.list = func() ([]alsadev.Device, error) { return nil, errors.New("permission denied") }

	if _, err := b.Open(); err == nil {
		t.Error("expected Open to fail when enumeration fails")
	}
}

func TestBackend_NoWatchStillConnects(t *testing.T) {
	sys := newFakeSystem(pch(0, alsadev.StreamPlayback))
	b := sys.backend()
	b.watch = func(context.Context, *slog.Logger) (*changeSource, error) {
		return nil, errors.New("netlink: operation not permitted")
	}

	c, err := b.Open()
	if err != nil {
		t.Fatal(err)
	}
	if events := waitEvents(t, c); events[0].Kind != soundio.EventConnected {
		t.Errorf("expected connected, got %v", events)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestToDevice(t *testing.T) {
	dev := toDevice(pch(0, alsadev.StreamPlayback))

	if !dev.IsRaw {
		t.Error("expected hardware PCM to be raw")
	}
	if dev.Name != "HDA Intel PCH, ALC892 Analog" {
		t.Errorf("unexpected name %q", dev.Name)
	}
	if len(dev.Formats) != 2 {
		t.Errorf("expected non-linear formats dropped, got %v", dev.Formats)
	}
	if dev.CurrentFormat != soundio.FormatS32LE {
		t.Errorf("expected S32LE current format, got %s", dev.CurrentFormat)
	}
	if dev.CurrentLayout.Name != "Stereo" {
		t.Errorf("expected Stereo current layout, got %s", dev.CurrentLayout)
	}
	for _, l := range dev.Layouts {
		if n := l.ChannelCount(); n < 2 || n > 8 {
			t.Errorf("layout %s outside channel range", l)
		}
	}
	if dev.SampleRateCurrent != 48000 {
		t.Errorf("expected 48000 current rate, got %d", dev.SampleRateCurrent)
	}
	if len(dev.SampleRates) != 1 || dev.SampleRates[0] != (soundio.SampleRateRange{Min: 44100, Max: 192000}) {
		t.Errorf("unexpected rate ranges %v", dev.SampleRates)
	}

	wantMin := 64 * time.Second / 192000
	wantMax := 65536 * time.Second / 44100
	if dev.SoftwareLatencyMin != wantMin || dev.SoftwareLatencyMax != wantMax {
		t.Errorf("latency = [%s, %s], want [%s, %s]", dev.SoftwareLatencyMin, dev.SoftwareLatencyMax, wantMin, wantMax)
	}
}

func TestToDevice_Edges(t *testing.T) {
	mono := pch(0, alsadev.StreamCapture)
	mono.MinChannels, mono.MaxChannels = 1, 1
	if dev := toDevice(mono); dev.CurrentLayout.Name != "Mono" {
		t.Errorf("expected Mono for single-channel device, got %s", dev.CurrentLayout)
	}

	wide := pch(0, alsadev.StreamCapture)
	wide.MinChannels, wide.MaxChannels = 16, 16
	dev := toDevice(wide)
	if len(dev.Layouts) != 1 || !dev.Layouts[0].IsCustom() || dev.Layouts[0].ChannelCount() != 16 {
		t.Errorf("expected one custom 16-channel layout, got %v", dev.Layouts)
	}

	busy := pch(0, alsadev.StreamCapture)
	busy.ProbeErr = errors.New("device or resource busy")
	dev = toDevice(busy)
	if dev.ProbeError == nil || len(dev.Formats) != 0 {
		t.Error("expected probe error with no capabilities")
	}

	noID := pch(2, alsadev.StreamCapture)
	noID.CardID = ""
	if id := deviceID(noID); id != "hw:0,2" {
		t.Errorf("expected hw name fallback, got %q", id)
	}
}

func TestIsPCMNode(t *testing.T) {
	tests := map[string]bool{
		"/dev/snd/pcmC0D0p":  true,
		"/dev/snd/controlC1": true,
		"/dev/snd/timer":     false,
		"/dev/snd/seq":       false,
		"/dev/snd/by-id":     false,
	}
	for path, want := range tests {
		if got := isPCMNode(path); got != want {
			t.Errorf("isPCMNode(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFsnotifySource(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	src, err := fsnotifySource(ctx, testLogger(), dir)
	if err != nil {
		t.Fatalf("fsnotifySource() error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "pcmC5D0c"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-src.changes:
	case <-time.After(2 * time.Second):
		t.Error("expected a change signal for a new PCM node")
	}

	cancel()
	if err := src.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
