// Package api exposes the Boss over HTTP and WebSocket.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/boss-orchestrator/internal/config"
	"github.com/example/boss-orchestrator/internal/models"
	"github.com/example/boss-orchestrator/internal/orchestrator"
	"github.com/example/boss-orchestrator/internal/telemetry"
	"github.com/example/boss-orchestrator/internal/tools"
)

// Boss is the orchestrator surface the handlers need.
type Boss interface {
	Ask(ctx context.Context, req models.Request) models.Answer
	Owners() []string
	Hub() *orchestrator.Hub
}

// Enricher turns attachments into request context.
type Enricher interface {
	Enrich(ctx context.Context, atts []tools.Attachment) map[string]any
}

// Server holds the handler dependencies.
type Server struct {
	boss           Boss
	enricher       Enricher
	cfg            config.Server
	service        string
	log            *slog.Logger
	originPatterns []string
}

// NewServer wires the handlers. enricher may be nil, in which case
// attachments are ignored.
func NewServer(boss Boss, enricher Enricher, cfg config.Server, service string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		boss:           boss,
		enricher:       enricher,
		cfg:            cfg,
		service:        service,
		log:            log,
		originPatterns: originHosts(cfg.CORSOrigins),
	}
}

// Routes returns the HTTP handler with the middleware chain applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestContext)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.HTTPMiddleware(s.service))
	r.Use(Logger(s.log))
	r.Use(CORS(s.cfg.CORSOrigins))

	r.Get("/health", s.Health)
	r.Get("/owners", s.ListOwners)
	r.Post("/ask", s.Ask)
	r.Get("/ask/stream", s.AskStream)
	return r
}

// originHosts converts allowed origins into host patterns for the WebSocket
// origin check.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
