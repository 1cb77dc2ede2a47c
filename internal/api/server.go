package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/gesture"
	"github.com/smazurov/blinkid/internal/logging"
	"github.com/smazurov/blinkid/internal/sequence"
	"github.com/smazurov/blinkid/internal/version"
)

// StatusProvider exposes the controller snapshot and configured sequence.
type StatusProvider interface {
	Status() sequence.Status
	Sequence() sequence.Sequence
}

// Gesture is the double-click detector as seen by the API.
type Gesture interface {
	Press()
	Active() bool
	State() gesture.State
}

// Options configures the API server. Auth is enabled only when both
// username and password are set.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	Controller        StatusProvider
	Gesture           Gesture
	EventBus          *events.Bus
	PrometheusHandler http.Handler
}

// Server is the status and control API.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	options    *Options
	eventBus   *events.Bus
	logger     *slog.Logger
}

// NewServer builds the huma API on a stdlib ServeMux and registers all
// routes. /metrics is mounted on the mux directly and bypasses auth.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	cfg := huma.DefaultConfig("blinkid API", version.String())
	cfg.Info.Description = "Status and control of the LED identifier blink controller"
	cfg.Servers = []*huma.Server{}
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		securityScheme: {Type: "http", Scheme: "basic"},
	}

	s := &Server{
		api:      humago.New(mux, cfg),
		mux:      mux,
		options:  opts,
		eventBus: opts.EventBus,
		logger:   logging.GetLogger("api"),
	}

	s.api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		s.api.UseMiddleware(s.requireBasicAuth(opts.AuthUsername, opts.AuthPassword))
	}
	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	s.registerSystemRoutes()
	s.registerStatusRoutes()
	s.registerSSERoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves HTTP on addr and blocks until Stop.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("API listening", "addr", addr, "docs", "/docs")
	return s.httpServer.ListenAndServe()
}

// Stop closes the listener and every open connection, SSE streams included.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("API stopping")
	return s.httpServer.Close()
}
