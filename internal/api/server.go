// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Authentication is applied per route group by the domain handlers, not globally.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/inkpost/internal/blog/post"
	"github.com/taibuivan/inkpost/internal/platform/apperr"
	"github.com/taibuivan/inkpost/internal/platform/config"
	"github.com/taibuivan/inkpost/internal/platform/constants"
	"github.com/taibuivan/inkpost/internal/platform/middleware"
	"github.com/taibuivan/inkpost/internal/platform/respond"
	"github.com/taibuivan/inkpost/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	// Users serves signup, signin and the current-user lookup.
	Users *auth.Handler

	// Posts serves the blog feed and post mutations.
	Posts *post.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. The rate limiter sweeper stops with ctx.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Handler)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.RouteNotFound())
	})
	r.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.MethodNotAllowed())
	})

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/user", h.Users.Routes())
		api.Mount("/blog", h.Posts.Routes())

		// Single-post clients address posts under /post as well.
		api.Mount("/post", h.Posts.Routes())
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

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server and blocks until it is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
