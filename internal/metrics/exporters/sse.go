package exporters

import (
	"context"
	"sync"
	"time"

	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/sequence"
)

// DefaultStatusInterval is how often a status snapshot is published.
const DefaultStatusInterval = time.Second

// EventPublisher interface for publishing events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// StatusSource provides the controller snapshot.
type StatusSource interface {
	Status() sequence.Status
}

// ActivationSource reports whether the identifier sequence is active.
type ActivationSource interface {
	Active() bool
}

// SSEExporter periodically publishes controller status for SSE clients.
type SSEExporter struct {
	eventBus   EventPublisher
	status     StatusSource
	activation ActivationSource
	interval   time.Duration
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
}

// NewSSEExporter creates a new SSE exporter. A non-positive interval uses
// DefaultStatusInterval.
func NewSSEExporter(eventBus EventPublisher, status StatusSource, activation ActivationSource, interval time.Duration) *SSEExporter {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	return &SSEExporter{
		eventBus:   eventBus,
		status:     status,
		activation: activation,
		interval:   interval,
	}
}

// Start begins the SSE export loop.
func (s *SSEExporter) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	var runCtx context.Context
	runCtx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop stops the SSE exporter and waits for the goroutine to finish.
func (s *SSEExporter) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *SSEExporter) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publishStatus()
		}
	}
}

func (s *SSEExporter) publishStatus() {
	s.eventBus.Publish(Snapshot(s.status, s.activation))
}

// Snapshot builds a StatusEvent from the current controller state.
func Snapshot(status StatusSource, activation ActivationSource) events.StatusEvent {
	st := status.Status()
	ev := events.StatusEvent{
		State:      string(st.State),
		LEDIndex:   st.Cursor.LEDIndex,
		BlinkIndex: st.Cursor.BlinkIndex,
		Passes:     st.Passes,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	if activation != nil {
		ev.Active = activation.Active()
	}
	return ev
}

// GetEventTypes returns event types for SSE endpoint registration.
func GetEventTypes() map[string]any {
	return map[string]any{
		"status": events.StatusEvent{},
	}
}

// GetEventTypesForEndpoint returns event types for a specific SSE endpoint.
func GetEventTypesForEndpoint(endpoint string) map[string]any {
	if endpoint == "events" {
		return GetEventTypes()
	}
	return map[string]any{}
}
