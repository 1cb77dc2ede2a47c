// Package button delivers press events from an input to a callback. Sources
// detect presses on their own goroutine and hand them off through a small
// buffered queue, so a slow consumer costs dropped presses, never a blocked
// poller.
package button

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/logging"
)

// Source produces press events.
type Source interface {
	// Start begins delivering presses to onPress until ctx is done or Stop
	// is called. onPress runs on a single goroutine and must not block.
	Start(ctx context.Context, onPress func()) error
	Stop()
}

// queueSize bounds presses waiting for the consumer.
const queueSize = 8

// handoff queues presses from a detector goroutine to the callback goroutine.
type handoff struct {
	source  string
	queue   chan struct{}
	dropped atomic.Uint32
	bus     *events.Bus
	logger  logging.Logger
	wg      sync.WaitGroup
}

func newHandoff(source string, bus *events.Bus, logger logging.Logger) *handoff {
	return &handoff{
		source: source,
		queue:  make(chan struct{}, queueSize),
		bus:    bus,
		logger: logger,
	}
}

// offer enqueues one press without blocking.
func (h *handoff) offer() {
	select {
	case h.queue <- struct{}{}:
	default:
		total := h.dropped.Add(1)
		h.logger.Warn("Button press dropped, consumer busy", "source", h.source, "dropped_total", total)
		h.bus.Publish(events.ButtonDroppedEvent{Source: h.source, Total: total})
	}
}

// run delivers queued presses to onPress until ctx is done.
func (h *handoff) run(ctx context.Context, onPress func()) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.queue:
				h.bus.Publish(events.ButtonPressedEvent{
					Source:    h.source,
					Timestamp: time.Now().Format(time.RFC3339Nano),
				})
				onPress()
			}
		}
	}()
}

func (h *handoff) wait() { h.wg.Wait() }

// Dropped returns how many presses were discarded.
func (h *handoff) Dropped() uint32 { return h.dropped.Load() }
