package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smazurov/soundnode/internal/events"
	"github.com/smazurov/soundnode/pkg/soundio"
	"github.com/smazurov/soundnode/pkg/soundio/dummy"
)

type chanPublisher chan events.Event

func (p chanPublisher) Publish(ev events.Event) { p <- ev }

func (p chanPublisher) next(t *testing.T) events.Event {
	t.Helper()
	select {
	case ev := <-p:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func start(t *testing.T, backend *dummy.Backend) (*soundio.Context, chanPublisher, context.CancelFunc, <-chan error) {
	t.Helper()
	sctx := soundio.New(soundio.NewRegistry(backend))
	if err := sctx.Connect(soundio.BackendDummy); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(sctx.Disconnect)

	pub := make(chanPublisher, 16)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() { done <- New(sctx, pub).Run(ctx) }()
	return sctx, pub, cancel, done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRun_InitialSnapshot(t *testing.T) {
	_, pub, cancel, done := start(t, dummy.New())

	ev, ok := pub.next(t).(events.DevicesChangedEvent)
	if !ok {
		t.Fatalf("Expected DevicesChangedEvent")
	}
	if !ev.Initial {
		t.Error("Expected first event to be initial")
	}
	if ev.Backend != soundio.BackendDummy {
		t.Errorf("Expected backend Dummy, got %s", ev.Backend)
	}
	if ev.Snapshot.InputCount() != 1 || ev.Snapshot.OutputCount() != 1 {
		t.Errorf("Expected 1 input and 1 output, got %d and %d", ev.Snapshot.InputCount(), ev.Snapshot.OutputCount())
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Errorf("Expected nil on cancel, got %v", err)
	}
}

func TestRun_HotPlug(t *testing.T) {
	backend := dummy.New()
	_, pub, _, _ := start(t, backend)
	pub.next(t)

	backend.AddDevice(dummy.NewDevice("usb-headset", "USB Headset", soundio.AimOutput))
	ev := pub.next(t).(events.DevicesChangedEvent)
	if ev.Initial {
		t.Error("Expected change event not to be initial")
	}
	if ev.Snapshot.OutputCount() != 2 {
		t.Errorf("Expected 2 outputs, got %d", ev.Snapshot.OutputCount())
	}

	backend.RemoveDevice("usb-headset")
	ev = pub.next(t).(events.DevicesChangedEvent)
	if ev.Snapshot.OutputCount() != 1 {
		t.Errorf("Expected 1 output after removal, got %d", ev.Snapshot.OutputCount())
	}
}

func TestRun_BackendLost(t *testing.T) {
	backend := dummy.New()
	sctx, pub, _, done := start(t, backend)
	pub.next(t)

	cause := errors.New("server went away")
	backend.Fail(cause)

	ev, ok := pub.next(t).(events.BackendDisconnectedEvent)
	if !ok {
		t.Fatal("Expected BackendDisconnectedEvent")
	}
	if !errors.Is(ev.Err, cause) {
		t.Errorf("Expected cause %v, got %v", cause, ev.Err)
	}

	err := waitDone(t, done)
	if !errors.Is(err, ErrBackendLost) || !errors.Is(err, cause) {
		t.Errorf("Expected ErrBackendLost wrapping cause, got %v", err)
	}
	if sctx.State() != soundio.StateFailed {
		t.Errorf("Expected failed state, got %s", sctx.State())
	}
}

func TestRun_DisconnectFromAnotherGoroutine(t *testing.T) {
	sctx, pub, _, done := start(t, dummy.New())
	pub.next(t)

	sctx.Disconnect()
	if err := waitDone(t, done); err != nil {
		t.Errorf("Expected nil after Disconnect, got %v", err)
	}
}

func TestRun_NotConnected(t *testing.T) {
	sctx := soundio.New(soundio.NewRegistry(dummy.New()))
	err := New(sctx, make(chanPublisher, 1)).Run(context.Background())
	if !errors.Is(err, soundio.ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}
}
