package api

import (
	"context"
	"maps"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/metrics/exporters"
)

// streamBuffer bounds the events queued for a slow SSE client; the bus
// drops rather than blocks once it is full.
const streamBuffer = 32

// streamEventTypes maps SSE event names to payload types. huma uses the
// map both for the OpenAPI schema and to name outgoing messages.
func streamEventTypes() map[string]any {
	types := map[string]any{
		"button-pressed":     events.ButtonPressedEvent{},
		"button-dropped":     events.ButtonDroppedEvent{},
		"activation-changed": events.ActivationChangedEvent{},
		"click-discarded":    events.ClickDiscardedEvent{},
		"blink-completed":    events.BlinkCompletedEvent{},
		"fade-cancelled":     events.FadeCancelledEvent{},
		"cursor-persisted":   events.CursorPersistedEvent{},
		"sequence-completed": events.SequenceCompletedEvent{},
	}
	maps.Copy(types, exporters.GetEventTypesForEndpoint("events"))
	return types
}

func subscribeStream(bus *events.Bus, ch chan<- any) (unsubscribe func()) {
	unsubs := []func(){
		events.SubscribeToChannel[events.ButtonPressedEvent](bus, ch),
		events.SubscribeToChannel[events.ButtonDroppedEvent](bus, ch),
		events.SubscribeToChannel[events.ActivationChangedEvent](bus, ch),
		events.SubscribeToChannel[events.ClickDiscardedEvent](bus, ch),
		events.SubscribeToChannel[events.BlinkCompletedEvent](bus, ch),
		events.SubscribeToChannel[events.FadeCancelledEvent](bus, ch),
		events.SubscribeToChannel[events.CursorPersistedEvent](bus, ch),
		events.SubscribeToChannel[events.SequenceCompletedEvent](bus, ch),
		events.SubscribeToChannel[events.StatusEvent](bus, ch),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Live event stream",
		Description: "Presses, activation changes, blinks, cursor updates and periodic status snapshots",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{http.StatusUnauthorized},
	}, streamEventTypes(), s.streamEvents)
}

// streamEvents subscribes before writing the first snapshot, so nothing
// published after the snapshot is missed.
func (s *Server) streamEvents(ctx context.Context, _ *struct{}, send sse.Sender) {
	ch := make(chan any, streamBuffer)
	unsubscribe := subscribeStream(s.eventBus, ch)
	defer unsubscribe()

	if err := send.Data(exporters.Snapshot(s.options.Controller, s.options.Gesture)); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			if err := send.Data(ev); err != nil {
				s.logger.Debug("SSE client gone", "error", err)
				return
			}
		}
	}
}
