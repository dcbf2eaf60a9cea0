// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/parleyhq/parley/internal/forum/comment"
	"github.com/parleyhq/parley/internal/forum/topic"
	"github.com/parleyhq/parley/internal/platform/config"
	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/internal/platform/ctxutil"
	"github.com/parleyhq/parley/internal/platform/metrics"
	"github.com/parleyhq/parley/internal/platform/middleware"
	"github.com/parleyhq/parley/internal/platform/respond"
	"github.com/parleyhq/parley/internal/users/auth"
	"github.com/parleyhq/parley/internal/users/session"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the account routes (login, signup, logout, profile).
	Auth *auth.Handler

	// Topic handles the home page and thread CRUD.
	Topic *topic.Handler

	// Comment handles replies and their page resolution.
	Comment *comment.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, sessions *session.Manager, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. LoadSession sits
	// before the logger so finished-request log lines can carry user_id.
	r.Use(middleware.RequestID())
	r.Use(middleware.LoadSession(sessions))
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg, splitOrigins(cfg.ExtraOrigins)...))
	r.Use(chimw.CleanPath)
	r.Use(metrics.Instrument)

	// # Infrastructure Endpoints
	// Unauthenticated probes and the Prometheus scrape target.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// # Application Routes
	// The forum lives at the root; its URLs are canonical browser paths.
	requireUser := middleware.RequireUser(sessions)

	r.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		respond.SeeOther(writer, request, constants.PathHome)
	})

	h.Auth.Register(r, requireUser)
	h.Topic.Register(r, requireUser)
	h.Comment.Register(r, requireUser)

	// Unknown URLs get the same treatment as rows that do not exist: a
	// flash on the home page instead of a bare 404.
	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		sess := ctxutil.GetSession(request.Context())
		if sess == nil {
			sess = session.New()
		}
		sess.SetError("Page does not exist!")
		if err := sessions.Save(request.Context(), writer, sess); err != nil {
			log.ErrorContext(request.Context(), "session_save_failed", slog.Any("error", err))
		}
		respond.SeeOther(writer, request, constants.PathHome)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// splitOrigins parses the comma-separated EXTRA_ORIGINS setting.
func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
