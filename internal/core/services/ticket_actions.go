package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	apperrors "github.com/lorrc/ticket-sync/internal/core/errors"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

// UpdateTicketRequest is an admin status/comment change. An empty status
// means Open.
type UpdateTicketRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// TicketActionService performs admin writes against the remote API. It never
// edits the local collection; a successful action asks the poller to refresh.
type TicketActionService struct {
	gateway   ports.TicketGateway
	snapshots ports.TicketSnapshots
	recorder  ports.InteractionRecorder
	logger    *slog.Logger
}

func NewTicketActionService(
	gateway ports.TicketGateway,
	snapshots ports.TicketSnapshots,
	recorder ports.InteractionRecorder,
	logger *slog.Logger,
) *TicketActionService {
	return &TicketActionService{
		gateway:   gateway,
		snapshots: snapshots,
		recorder:  recorder,
		logger:    logger.With("component", "ticket_actions"),
	}
}

// UpdateTicket sends the status, as its display label, and the comment.
func (s *TicketActionService) UpdateTicket(ctx context.Context, ticketID int64, req UpdateTicketRequest) (*domain.Ticket, error) {
	if ticketID <= 0 {
		return nil, apperrors.ErrInvalidTicketID
	}

	raw := strings.TrimSpace(req.Status)
	status := domain.StatusOpen
	if raw != "" {
		parsed, ok := domain.ParseStatus(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, req.Status)
		}
		status = parsed
	}

	updated, err := s.gateway.UpdateTicket(ctx, ticketID, ports.UpdateTicketParams{
		Status:  status.Label(),
		Comment: req.Comment,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "ticket update failed", "ticket_id", ticketID, "error", err)
		return nil, fmt.Errorf("update ticket %d: %w", ticketID, err)
	}

	s.logger.InfoContext(ctx, "ticket updated", "ticket_id", ticketID, "status", status)
	s.recorder.Track(ctx, domain.EventTicketUpdates, map[string]any{"status": string(status)})
	s.snapshots.Refresh()
	return updated, nil
}

// DeleteTicket removes a ticket remotely.
func (s *TicketActionService) DeleteTicket(ctx context.Context, ticketID int64) error {
	if ticketID <= 0 {
		return apperrors.ErrInvalidTicketID
	}

	if err := s.gateway.DeleteTicket(ctx, ticketID); err != nil {
		s.logger.WarnContext(ctx, "ticket delete failed", "ticket_id", ticketID, "error", err)
		return fmt.Errorf("delete ticket %d: %w", ticketID, err)
	}

	s.logger.InfoContext(ctx, "ticket deleted", "ticket_id", ticketID)
	s.recorder.Track(ctx, domain.EventTicketDeletes, nil)
	s.snapshots.Refresh()
	return nil
}
