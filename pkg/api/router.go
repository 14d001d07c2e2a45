// Package api provides HTTP API server components.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/gothink/gothink/config"
	"github.com/gothink/gothink/pkg/api/handlers"
	"github.com/gothink/gothink/pkg/api/middleware"
	"github.com/gothink/gothink/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/gothink/gothink/docs/swagger" // Import generated docs
)

// Handlers holds all HTTP handlers.
type Handlers struct {
	// Thought handles reasoning endpoints
	Thought *handlers.ThoughtHandler

	// Health handles health check endpoints
	Health *handlers.HealthHandler

	// WebSocket streams reasoning lifecycle events
	WebSocket *handlers.WebSocketHandler

	// Metrics is the optional metrics recorder
	Metrics middleware.MetricsRecorder
}

// NewRouter creates a new chi router with middleware and routes.
func NewRouter(cfg *config.Config, log logger.Logger, handlers *Handlers) chi.Router {
	r := chi.NewRouter()

	// Register global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	// Request-scoped guards; the websocket stream stays outside this group
	// so a held connection is never timed out or throttled.
	r.Group(func(r chi.Router) {
		if cfg.Tracing.Enabled {
			r.Use(middleware.Tracing(middleware.DefaultTracingOptions()))
		}

		// Add metrics middleware if provided
		if handlers.Metrics != nil {
			r.Use(middleware.Metrics(handlers.Metrics))
		}

		if cfg.Server.Throttle.Enabled {
			r.Use(middleware.Throttle(&cfg.Server.Throttle))
		}
		if cfg.Server.Breaker.Enabled {
			r.Use(middleware.Breaker(&cfg.Server.Breaker, log))
		}

		r.Use(middleware.CORS(&cfg.Server.CORS))
		r.Use(middleware.Timeout(cfg.Server.HTTP.ReadTimeout))

		// Register routes
		RegisterRoutes(r, handlers)
	})

	// Live event stream; the upgrade handshake enforces allowed origins.
	if handlers.WebSocket != nil {
		r.Get("/ws/events", handlers.WebSocket.ServeHTTP)
	}

	return r
}

// RegisterRoutes registers all API routes.
func RegisterRoutes(r chi.Router, handlers *Handlers) {
	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		if handlers.Thought != nil {
			r.Route("/thoughts", func(r chi.Router) {
				r.Post("/", handlers.Thought.SubmitThought)
				r.Get("/", handlers.Thought.ListThoughts)
				r.Get("/suggest", handlers.Thought.SuggestNext)
				r.Get("/path", handlers.Thought.BestPath)
			})

			r.Post("/outcome", handlers.Thought.RecordOutcome)

			r.Route("/branches", func(r chi.Router) {
				r.Get("/", handlers.Thought.ListBranches)
				r.Get("/{branchID}", handlers.Thought.GetBranch)
			})

			r.Get("/stats", handlers.Thought.GetStats)
			r.Delete("/state", handlers.Thought.ResetState)
		}
	})

	// Health check routes (not versioned)
	if handlers.Health != nil {
		r.Get("/health", handlers.Health.Health)
		r.Get("/ready", handlers.Health.Ready)
		r.Get("/status", handlers.Health.Status)
	}

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
