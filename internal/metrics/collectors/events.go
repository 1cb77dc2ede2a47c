// Package collectors feeds the metrics package from the event bus.
package collectors

import (
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/logging"
	"github.com/smazurov/blinkid/internal/metrics"
)

// EventCollector translates bus events into metric updates, keeping the
// gesture and sequence packages free of metric calls.
type EventCollector struct {
	bus    *events.Bus
	logger logging.Logger
	unsubs []func()
}

// NewEventCollector creates a collector for bus.
func NewEventCollector(bus *events.Bus) *EventCollector {
	return &EventCollector{
		bus:    bus,
		logger: logging.GetLogger("metrics"),
	}
}

// Start subscribes to all metric-relevant events.
func (c *EventCollector) Start() {
	c.unsubs = append(c.unsubs,
		c.bus.Subscribe(func(e events.ButtonPressedEvent) {
			metrics.IncButtonPress(e.Source)
		}),
		c.bus.Subscribe(func(events.ButtonDroppedEvent) {
			metrics.IncButtonDropped()
		}),
		c.bus.Subscribe(func(e events.ActivationChangedEvent) {
			metrics.RecordActivation(e.Active)
		}),
		c.bus.Subscribe(func(events.ClickDiscardedEvent) {
			metrics.IncDiscardedClick()
		}),
		c.bus.Subscribe(func(e events.BlinkCompletedEvent) {
			metrics.IncBlink(e.LED)
		}),
		c.bus.Subscribe(func(e events.FadeCancelledEvent) {
			metrics.IncFadeCancelled(e.LED)
		}),
		c.bus.Subscribe(func(e events.CursorPersistedEvent) {
			metrics.SetCursor(e.LEDIndex, e.BlinkIndex)
		}),
		c.bus.Subscribe(func(events.SequenceCompletedEvent) {
			metrics.IncSequencePass()
			metrics.SetCursor(0, 0)
		}),
	)
	c.logger.Debug("Event metrics collector started", "subscriptions", len(c.unsubs))
}

// Stop removes all subscriptions.
func (c *EventCollector) Stop() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}
