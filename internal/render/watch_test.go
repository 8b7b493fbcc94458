package render

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/soundnode/internal/events"
	"github.com/smazurov/soundnode/pkg/soundio"
	"github.com/smazurov/soundnode/pkg/soundio/dummy"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, buf *lockedBuffer, substr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), substr) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %q in output, got:\n%s", substr, buf.String())
}

func TestWatcher(t *testing.T) {
	bus := events.New()
	buf := &lockedBuffer{}
	unsub := NewWatcher(buf).Subscribe(bus)
	defer unsub()

	snap := snapshotOf(t, dummy.New())

	bus.Publish(events.DevicesChangedEvent{Backend: soundio.BackendDummy, Snapshot: snap, Initial: true})
	bus.Publish(events.DevicesChangedEvent{Backend: soundio.BackendDummy, Snapshot: snap})
	waitFor(t, buf, "Outputs\n")

	if n := strings.Count(buf.String(), "Inputs\n"); n != 1 {
		t.Errorf("Expected initial snapshot skipped, got %d listings", n)
	}

	bus.Publish(events.BackendDisconnectedEvent{Backend: soundio.BackendDummy, Err: errors.New("gone")})
	waitFor(t, buf, "Backend Dummy disconnected: gone\n")
}
