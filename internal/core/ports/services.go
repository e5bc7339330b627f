package ports

import (
	"context"

	"github.com/lorrc/ticket-sync/internal/core/domain"
)

// WindowEventHandler reacts to a consumer lifecycle signal.
type WindowEventHandler func(event domain.WindowEvent)

// WindowEvents is the subscription surface for focus and visibility
// signals. The returned function removes the subscription.
type WindowEvents interface {
	Subscribe(kind domain.WindowEventKind, handler WindowEventHandler) (unsubscribe func())
}

// SyncListener is notified after every sync attempt the poller applies,
// successful or not. The tickets slice must be treated as read-only.
type SyncListener func(state domain.SyncState, tickets []domain.Ticket)

// TicketSnapshots is the read side of the ticket sync poller.
type TicketSnapshots interface {
	// Tickets returns the current collection and its version. The slice
	// must be treated as read-only.
	Tickets() ([]domain.Ticket, uint64)
	State() domain.SyncState
	// Refresh requests an out-of-band fetch.
	Refresh()
}

// InteractionRecorder records UI events. Track is best-effort and never
// fails the caller.
type InteractionRecorder interface {
	Track(ctx context.Context, event string, meta map[string]any)
	Snapshot(ctx context.Context) *domain.InteractionSnapshot
}

// EventBroadcaster defines the port for broadcasting real-time events.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
