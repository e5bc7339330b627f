package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "github.com/lorrc/ticket-sync/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

// RouterConfig collects the handlers and middleware of the local API.
// Nil limiters disable rate limiting.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Identity       ports.IdentityScope
	GeneralLimiter *mw.RateLimiter
	ActionLimiter  *mw.RateLimiter
	Health         *HealthHandler
	Me             *MeHandler
	Dashboards     *DashboardHandler
	Admin          *AdminHandler
	History        *HistoryHandler
	Interactions   *InteractionHandler
	Window         *WindowHandler
	WebSocket      http.Handler
}

// NewRouter wires the local dashboard API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SessionScope(cfg.Identity))
	r.Use(mw.RequestLogger(cfg.Logger))
	r.Use(mw.RecoveryLogger(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.GeneralLimiter != nil {
		r.Use(cfg.GeneralLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(r)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Me != nil {
			r.Route("/me", cfg.Me.RegisterRoutes)
		}
		cfg.Dashboards.RegisterRoutes(r)
		r.Route("/history", cfg.History.RegisterRoutes)
		r.Route("/interactions", cfg.Interactions.RegisterRoutes)
		r.Route("/window", cfg.Window.RegisterRoutes)

		// Admin writes go to the remote API and get a stricter limit
		r.Group(func(r chi.Router) {
			if cfg.ActionLimiter != nil {
				r.Use(cfg.ActionLimiter.Middleware)
			}
			cfg.Admin.RegisterRoutes(r)
		})

		if cfg.WebSocket != nil {
			r.Get("/ws", cfg.WebSocket.ServeHTTP)
		}
	})

	return r
}
