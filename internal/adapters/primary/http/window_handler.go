package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-sync/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-sync/internal/core/domain"
)

// WindowPublisher delivers window lifecycle signals to subscribers.
type WindowPublisher interface {
	Publish(event domain.WindowEvent)
}

// WindowHandler lets a front end without a websocket report focus and
// visibility changes.
type WindowHandler struct {
	publisher    WindowPublisher
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewWindowHandler(publisher WindowPublisher, errorHandler *ErrorHandler, logger *slog.Logger) *WindowHandler {
	return &WindowHandler{
		publisher:    publisher,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "window"),
	}
}

func (h *WindowHandler) RegisterRoutes(r chi.Router) {
	r.Post("/focus", h.HandleFocus)
	r.Post("/visibility", h.HandleVisibility)
}

type VisibilityRequest struct {
	Visible bool `json:"visible"`
}

// HandleFocus handles POST /window/focus
func (h *WindowHandler) HandleFocus(w http.ResponseWriter, r *http.Request) {
	h.publisher.Publish(domain.WindowEvent{Kind: domain.WindowFocus})
	WriteNoContent(w)
}

// HandleVisibility handles POST /window/visibility
func (h *WindowHandler) HandleVisibility(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[VisibilityRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.publisher.Publish(domain.WindowEvent{Kind: domain.WindowVisibility, Visible: req.Visible})
	WriteNoContent(w)
}
