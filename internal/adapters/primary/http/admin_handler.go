package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-sync/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/services"
)

// MaxAdminCommentLength bounds the comment sent with a status update.
const MaxAdminCommentLength = 2000

// TicketActions performs administrator writes against the remote API.
type TicketActions interface {
	UpdateTicket(ctx context.Context, ticketID int64, req services.UpdateTicketRequest) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID int64) error
}

type AdminHandler struct {
	actions      TicketActions
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewAdminHandler(actions TicketActions, errorHandler *ErrorHandler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		actions:      actions,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "admin"),
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Patch("/admin/tickets/{id}", h.HandleUpdateTicket)
	r.Delete("/admin/tickets/{id}", h.HandleDeleteTicket)
}

type UpdateTicketRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (r *UpdateTicketRequest) Validate() error {
	v := validation.NewValidator()

	_, known := domain.ParseStatus(r.Status)
	v.Custom("status", r.Status == "" || known, "Must be one of: Open, In Progress, Resolved").
		MaxLength("comment", r.Comment, MaxAdminCommentLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleUpdateTicket handles PATCH /admin/tickets/{id}
func (h *AdminHandler) HandleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := validation.ParseIDParam(r, "id")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.actions.UpdateTicket(r.Context(), ticketID, services.UpdateTicketRequest{
		Status:  req.Status,
		Comment: req.Comment,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "ticket updated", "ticket_id", ticketID, "status", ticket.Status)
	WriteSuccess(w, ticket)
}

// HandleDeleteTicket handles DELETE /admin/tickets/{id}
func (h *AdminHandler) HandleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := validation.ParseIDParam(r, "id")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.actions.DeleteTicket(r.Context(), ticketID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "ticket deleted", "ticket_id", ticketID)
	WriteNoContent(w)
}
