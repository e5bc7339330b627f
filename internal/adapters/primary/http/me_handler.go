package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

// MeResponse describes whose interactions this process records.
type MeResponse struct {
	Scope         string              `json:"scope"`
	Authenticated bool                `json:"authenticated"`
	User          *domain.SessionUser `json:"user,omitempty"`
}

// MeHandler handles HTTP requests about the signed-in user.
type MeHandler struct {
	identity ports.IdentityScope
	logger   *slog.Logger
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(identity ports.IdentityScope, logger *slog.Logger) *MeHandler {
	return &MeHandler{
		identity: identity,
		logger:   logger.With("handler", "me"),
	}
}

// RegisterRoutes registers the /me routes.
func (h *MeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleMe)
}

// HandleMe handles GET /me.
func (h *MeHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	response := MeResponse{Scope: domain.GuestScope}
	if h.identity != nil {
		response.Scope = h.identity.Scope()
		if user, ok := h.identity.User(); ok {
			response.Authenticated = true
			response.User = &user
		}
	}

	WriteJSON(w, http.StatusOK, response)
}
