package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/blinkid/internal/logging"
)

// quietPaths are polled by dashboards and health probes.
var quietPaths = map[string]bool{
	"/api/health": true,
	"/api/status": true,
}

// HTTPLoggingMiddleware logs HTTP requests with appropriate log levels based on status codes.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	logger := logging.GetLogger("http")

	method := ctx.Method()
	path := ctx.URL().Path

	logAttrs := []slog.Attr{
		slog.String("method", method),
		slog.String("path", path),
		slog.String("remote_addr", ctx.RemoteAddr()),
	}
	if userAgent := ctx.Header("User-Agent"); userAgent != "" {
		logAttrs = append(logAttrs, slog.String("user_agent", userAgent))
	}

	next(ctx)

	status := ctx.Status()
	logAttrs = append(logAttrs,
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	)

	const message = "HTTP request completed"
	switch {
	case status >= http.StatusInternalServerError:
		logger.LogAttrs(ctx.Context(), slog.LevelError, message, logAttrs...)
	case status >= http.StatusBadRequest:
		logger.LogAttrs(ctx.Context(), slog.LevelWarn, message, logAttrs...)
	case method == http.MethodGet && quietPaths[path]:
		logger.LogAttrs(ctx.Context(), slog.LevelDebug, message, logAttrs...)
	default:
		logger.LogAttrs(ctx.Context(), slog.LevelInfo, message, logAttrs...)
	}
}
