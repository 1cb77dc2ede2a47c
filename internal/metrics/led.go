package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ledWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "blinkid",
	Subsystem: "led",
	Name:      "write_errors_total",
	Help:      "Failed writes to an LED line",
}, []string{"led"})

// IncLEDWriteError counts a failed write to led.
func IncLEDWriteError(led string) {
	ledWriteErrors.WithLabelValues(led).Inc()
}
