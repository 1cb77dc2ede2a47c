package collectors

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smazurov/blinkid/internal/events"
)

// gatherValue reads a single sample from the default registry.
func gatherValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
metricLoop:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metricLoop
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}
	return 0
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestEventCollector(t *testing.T) {
	bus := events.New()
	c := NewEventCollector(bus)
	c.Start()
	defer c.Stop()

	blinksBefore := gatherValue(t, "blinkid_sequence_blinks_total", map[string]string{"led": "collector-led"})

	bus.Publish(events.BlinkCompletedEvent{LED: "collector-led"})
	waitFor(t, func() bool {
		return gatherValue(t, "blinkid_sequence_blinks_total", map[string]string{"led": "collector-led"}) == blinksBefore+1
	})

	bus.Publish(events.ActivationChangedEvent{Active: true})
	waitFor(t, func() bool {
		return gatherValue(t, "blinkid_sequence_active", nil) == 1
	})

	bus.Publish(events.CursorPersistedEvent{LEDIndex: 3, BlinkIndex: 2})
	waitFor(t, func() bool {
		return gatherValue(t, "blinkid_sequence_cursor", map[string]string{"field": "led_index"}) == 3 &&
			gatherValue(t, "blinkid_sequence_cursor", map[string]string{"field": "blink_index"}) == 2
	})
}

func TestEventCollectorStop(t *testing.T) {
	bus := events.New()
	c := NewEventCollector(bus)
	c.Start()
	c.Stop()

	before := gatherValue(t, "blinkid_fade_cancelled_total", map[string]string{"led": "stopped-led"})
	bus.Publish(events.FadeCancelledEvent{LED: "stopped-led"})
	time.Sleep(20 * time.Millisecond)

	if got := gatherValue(t, "blinkid_fade_cancelled_total", map[string]string{"led": "stopped-led"}); got != before {
		t.Errorf("counter changed after Stop: %v -> %v", before, got)
	}
}
