package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-sync/internal/core/services"
)

// DashboardReader builds the live dashboard views.
type DashboardReader interface {
	UserDashboard(ctx context.Context) *services.UserDashboard
	AdminDashboard(ctx context.Context) *services.AdminDashboard
}

// DashboardHandler serves the requester and administrator dashboards.
type DashboardHandler struct {
	dashboards DashboardReader
	logger     *slog.Logger
}

func NewDashboardHandler(dashboards DashboardReader, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		logger:     logger.With("handler", "dashboard"),
	}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.HandleUserDashboard)
	r.Get("/admin/dashboard", h.HandleAdminDashboard)
}

// HandleUserDashboard handles GET /dashboard
func (h *DashboardHandler) HandleUserDashboard(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.dashboards.UserDashboard(r.Context()))
}

// HandleAdminDashboard handles GET /admin/dashboard
func (h *DashboardHandler) HandleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.dashboards.AdminDashboard(r.Context()))
}
