package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/soundnode/internal/api/models"
	"github.com/smazurov/soundnode/internal/events"
)

func toSSE(ev any) (any, bool) {
	switch e := ev.(type) {
	case events.DevicesChangedEvent:
		if e.Snapshot == nil {
			return nil, false
		}
		return models.DevicesChangedEvent{
			Backend:   e.Backend.String(),
			Initial:   e.Initial,
			Devices:   models.FromSnapshot(e.Snapshot),
			Timestamp: e.Timestamp,
		}, true
	case events.BackendDisconnectedEvent:
		msg := ""
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return models.BackendDisconnectedEvent{
			Backend:   e.Backend.String(),
			Error:     msg,
			Timestamp: e.Timestamp,
		}, true
	case events.LogLevelsChangedEvent:
		return models.LogLevelsChangedEvent{
			Level:     e.Level,
			Modules:   e.Modules,
			Timestamp: e.Timestamp,
		}, true
	}
	return nil, false
}

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of device changes, backend loss and log level reloads",
		Tags:        []string{"events"},
	}, map[string]any{
		"devices-changed":      models.DevicesChangedEvent{},
		"backend-disconnected": models.BackendDisconnectedEvent{},
		"log-levels-changed":   models.LogLevelsChangedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		if s.eventBus == nil {
			return
		}

		eventCh := make(chan any, 10)
		unsubscribers := []func(){
			events.SubscribeToChannel[events.DevicesChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.BackendDisconnectedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.LogLevelsChangedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// New clients start from the current snapshot
		if snap, connected := s.current(); snap != nil && connected {
			if err := send.Data(models.DevicesChangedEvent{
				Backend:   snap.Backend().String(),
				Initial:   true,
				Devices:   models.FromSnapshot(snap),
				Timestamp: snap.CapturedAt(),
			}); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				msg, ok := toSSE(ev)
				if !ok {
					continue
				}
				if err := send.Data(msg); err != nil {
					return
				}
			}
		}
	})
}
