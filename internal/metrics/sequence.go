package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sequenceBlinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blinkid",
		Subsystem: "sequence",
		Name:      "blinks_total",
		Help:      "Completed blinks by LED",
	}, []string{"led"})

	fadeCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blinkid",
		Subsystem: "fade",
		Name:      "cancelled_total",
		Help:      "Fades interrupted by deactivation, by LED",
	}, []string{"led"})

	sequencePasses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blinkid",
		Subsystem: "sequence",
		Name:      "passes_total",
		Help:      "Full passes over the identifier sequence",
	})

	sequenceCursor = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blinkid",
		Subsystem: "sequence",
		Name:      "cursor",
		Help:      "Persisted sequence cursor position",
	}, []string{"field"})
)

// IncBlink counts a completed blink of led.
func IncBlink(led string) {
	sequenceBlinks.WithLabelValues(led).Inc()
}

// IncFadeCancelled counts an interrupted fade of led.
func IncFadeCancelled(led string) {
	fadeCancelled.WithLabelValues(led).Inc()
}

// IncSequencePass counts a completed pass.
func IncSequencePass() {
	sequencePasses.Inc()
}

// SetCursor publishes the persisted cursor.
func SetCursor(ledIndex, blinkIndex int) {
	sequenceCursor.WithLabelValues("led_index").Set(float64(ledIndex))
	sequenceCursor.WithLabelValues("blink_index").Set(float64(blinkIndex))
}
