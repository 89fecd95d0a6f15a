// Package server exposes the widget over HTTP: server-side rendered
// embeds, a websocket that streams view-state emissions, and a small
// introspection API.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/codepane/internal/config"
	"github.com/ziadkadry99/codepane/internal/fetch"
	"github.com/ziadkadry99/codepane/internal/highlight"
	"github.com/ziadkadry99/codepane/internal/loader"
	"github.com/ziadkadry99/codepane/internal/theme"
	"github.com/ziadkadry99/codepane/internal/widget"
)

// Server is the codepane embed server. All request orchestrators share
// one highlight-engine singleton, so the engine loads at most once per
// process no matter how many widgets render concurrently.
type Server struct {
	mu         sync.RWMutex
	cfg        *config.Config
	engine     *loader.Singleton[highlight.Engine]
	version    string
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server with the given configuration.
func New(cfg *config.Config, version string) *Server {
	s := &Server{
		cfg:     cfg,
		engine:  highlight.NewSingleton(),
		version: version,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS: embeds are meant to be loaded from other origins.
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.Config().AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/embed", s.handleEmbed)
	r.Get("/api/introspect", s.handleIntrospect)
	r.Post("/api/retry", s.handleRetry)
	r.Get("/ws/render", s.handleWS)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Config returns the current configuration.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Reload swaps in a new configuration. In-flight requests keep the one
// they started with.
func (s *Server) Reload(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	log.Printf("codepane: configuration reloaded")
}

// Engine returns the shared highlight-engine loader.
func (s *Server) Engine() *loader.Singleton[highlight.Engine] { return s.engine }

// newOrchestrator builds a per-request orchestrator wired to the shared
// engine singleton. prefersDark supplies the client's system preference.
func (s *Server) newOrchestrator(sink widget.Sink, mode theme.Mode, prefersDark func() bool) *widget.Orchestrator {
	cfg := s.Config()
	return widget.New(widget.Options{
		Fetcher:         fetch.NewHTTP(cfg.FetchTimeout(), fetch.NormalizePatterns(cfg.Allowed)),
		Engine:          s.engine,
		Theme:           theme.NewResolver(mode, prefersDark, cfg.LightStyle, cfg.DarkStyle),
		Sink:            sink,
		BaseURL:         cfg.SourceBase,
		HighlightSource: cfg.HighlightSource,
	})
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.Config().Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("codepane server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
