// Package metrics holds the Prometheus metrics of the blink daemon.
// All metrics are registered with promauto on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buttonPresses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blinkid",
		Subsystem: "button",
		Name:      "presses_total",
		Help:      "Debounced button press edges by input source",
	}, []string{"source"})

	buttonDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blinkid",
		Subsystem: "button",
		Name:      "dropped_total",
		Help:      "Button presses dropped because the handoff queue was full",
	})

	gestureDoubleClicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blinkid",
		Subsystem: "gesture",
		Name:      "double_clicks_total",
		Help:      "Confirmed double-clicks (activation toggles)",
	})

	gestureDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blinkid",
		Subsystem: "gesture",
		Name:      "discarded_clicks_total",
		Help:      "Single clicks discarded after the double-click window expired",
	})

	sequenceActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blinkid",
		Subsystem: "sequence",
		Name:      "active",
		Help:      "1 while the identifier sequence is active",
	})
)

// IncButtonPress counts a press edge from source.
func IncButtonPress(source string) {
	buttonPresses.WithLabelValues(source).Inc()
}

// IncButtonDropped counts a dropped press.
func IncButtonDropped() {
	buttonDropped.Inc()
}

// RecordActivation counts a double-click and sets the active gauge.
func RecordActivation(active bool) {
	gestureDoubleClicks.Inc()
	if active {
		sequenceActive.Set(1)
	} else {
		sequenceActive.Set(0)
	}
}

// IncDiscardedClick counts a single click that timed out.
func IncDiscardedClick() {
	gestureDiscarded.Inc()
}
