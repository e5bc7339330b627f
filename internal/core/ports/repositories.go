package ports

import (
	"context"

	"github.com/lorrc/ticket-sync/internal/core/domain"
)

// TicketSource reads the full ticket collection from the remote store.
type TicketSource interface {
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
}

// UpdateTicketParams is the body of an admin status/comment update.
type UpdateTicketParams struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// TicketGateway is the full remote ticket API contract.
type TicketGateway interface {
	TicketSource
	UpdateTicket(ctx context.Context, ticketID int64, params UpdateTicketParams) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID int64) error
	Ping(ctx context.Context) error
}

// InteractionStore is a durable key-value store for serialized
// interaction snapshots. Get returns errors.ErrKeyNotFound for absent keys.
type InteractionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// CredentialSource supplies the session's bearer token. It is owned by the
// session layer; the engine only reads it.
type CredentialSource interface {
	BearerToken() (string, error)
}

// IdentityScope resolves the identity interaction snapshots are keyed by.
type IdentityScope interface {
	Scope() string
	// User returns the signed-in user, if the session has one.
	User() (domain.SessionUser, bool)
}
