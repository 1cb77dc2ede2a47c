// Package exporters publishes blinkid metrics: Prometheus over HTTP and
// periodic status snapshots for SSE clients.
package exporters

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler serves the default registry, which holds every promauto metric.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
