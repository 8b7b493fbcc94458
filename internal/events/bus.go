package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting.
// Each subscriber receives events on its own goroutine, in publish order.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
// Usage: bus.Publish(DevicesChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case DevicesChangedEvent:
		event.Publish(b.dispatcher, e)
	case BackendDisconnectedEvent:
		event.Publish(b.dispatcher, e)
	case LogLevelsChangedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function.
// The handler type determines which events it receives.
// Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e DevicesChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(DevicesChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(BackendDisconnectedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogLevelsChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Unknown handler types receive nothing
		return func() {}
	}
}

// SubscribeToChannel bridges callback subscriptions to a channel so consumers
// can select on bus events alongside other inputs. Events are dropped when
// ch is full.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
