package events

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/soundnode/pkg/soundio"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan DevicesChangedEvent, 1)

	unsub := bus.Subscribe(func(e DevicesChangedEvent) {
		received <- e
	})
	defer unsub()

	ev := DevicesChangedEvent{
		Backend:   soundio.BackendALSA,
		Initial:   true,
		Timestamp: time.Now(),
	}
	bus.Publish(ev)

	got := <-received
	if got.Backend != ev.Backend || !got.Initial {
		t.Errorf("Expected %+v, got %+v", ev, got)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan BackendDisconnectedEvent, 1)
	received2 := make(chan BackendDisconnectedEvent, 1)

	unsub1 := bus.Subscribe(func(e BackendDisconnectedEvent) { received1 <- e })
	defer unsub1()
	unsub2 := bus.Subscribe(func(e BackendDisconnectedEvent) { received2 <- e })
	defer unsub2()

	bus.Publish(BackendDisconnectedEvent{Backend: soundio.BackendPulseAudio, Err: errors.New("server gone")})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan LogLevelsChangedEvent, 1)

	unsub := bus.Subscribe(func(e LogLevelsChangedEvent) { received <- e })

	bus.Publish(LogLevelsChangedEvent{Level: "debug"})
	<-received

	unsub()

	bus.Publish(LogLevelsChangedEvent{Level: "info"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	devicesReceived := make(chan bool, 1)
	lostReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(DevicesChangedEvent) { devicesReceived <- true })
	defer unsub1()
	unsub2 := bus.Subscribe(func(BackendDisconnectedEvent) { lostReceived <- true })
	defer unsub2()

	bus.Publish(DevicesChangedEvent{Backend: soundio.BackendDummy})
	<-devicesReceived

	select {
	case <-lostReceived:
		t.Fatal("Disconnect subscriber should NOT have received DevicesChangedEvent")
	case <-time.After(10 * time.Millisecond):
	}

	bus.Publish(BackendDisconnectedEvent{Backend: soundio.BackendDummy})
	<-lostReceived

	select {
	case <-devicesReceived:
		t.Fatal("Devices subscriber should NOT have received BackendDisconnectedEvent")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	if unsub == nil {
		t.Fatal("Expected a no-op unsubscribe")
	}
	unsub()
}

func TestBus_OrderPerSubscriber(t *testing.T) {
	bus := New()
	const n = 50
	got := make(chan string, n)

	unsub := bus.Subscribe(func(e LogLevelsChangedEvent) { got <- e.Level })
	defer unsub()

	for i := 0; i < n; i++ {
		bus.Publish(LogLevelsChangedEvent{Level: strconv.Itoa(i)})
	}

	for i := 0; i < n; i++ {
		if v := <-got; v != strconv.Itoa(i) {
			t.Fatalf("Expected event %d in order, got %s", i, v)
		}
	}
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)

	unsub := bus.Subscribe(func(DevicesChangedEvent) { receivedCh <- true })
	defer unsub()

	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				bus.Publish(DevicesChangedEvent{Backend: soundio.BackendDummy, Timestamp: time.Now()})
			}
		}()
	}

	wg.Wait()

	for k := 0; k < expected; k++ {
		<-receivedCh
	}
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 10)

	unsub := SubscribeToChannel[BackendDisconnectedEvent](bus, ch)
	defer unsub()

	bus.Publish(BackendDisconnectedEvent{Backend: soundio.BackendJack})

	received := <-ch
	ev, ok := received.(BackendDisconnectedEvent)
	if !ok {
		t.Fatalf("Expected BackendDisconnectedEvent, got %T", received)
	}
	if ev.Backend != soundio.BackendJack {
		t.Errorf("Expected backend Jack, got %s", ev.Backend)
	}
}

func TestSubscribeToChannel_NonBlocking(_ *testing.T) {
	bus := New()
	ch := make(chan any) // No buffer

	unsub := SubscribeToChannel[DevicesChangedEvent](bus, ch)
	defer unsub()

	done := make(chan bool, 1)
	go func() {
		bus.Publish(DevicesChangedEvent{})
		done <- true
	}()

	<-done
}
