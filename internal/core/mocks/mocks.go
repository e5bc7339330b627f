package mocks

import (
	"context"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockTicketGateway is a mock implementation of ports.TicketGateway
type MockTicketGateway struct {
	mock.Mock
}

func NewMockTicketGateway() *MockTicketGateway {
	return &MockTicketGateway{}
}

func (m *MockTicketGateway) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketGateway) UpdateTicket(ctx context.Context, ticketID int64, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketGateway) DeleteTicket(ctx context.Context, ticketID int64) error {
	args := m.Called(ctx, ticketID)
	return args.Error(0)
}

func (m *MockTicketGateway) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockInteractionStore is a mock implementation of ports.InteractionStore
type MockInteractionStore struct {
	mock.Mock
}

func NewMockInteractionStore() *MockInteractionStore {
	return &MockInteractionStore{}
}

func (m *MockInteractionStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockInteractionStore) Put(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockInteractionRecorder is a mock implementation of ports.InteractionRecorder
type MockInteractionRecorder struct {
	mock.Mock
}

func NewMockInteractionRecorder() *MockInteractionRecorder {
	return &MockInteractionRecorder{}
}

func (m *MockInteractionRecorder) Track(ctx context.Context, event string, meta map[string]any) {
	m.Called(ctx, event, meta)
}

func (m *MockInteractionRecorder) Snapshot(ctx context.Context) *domain.InteractionSnapshot {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return domain.NewInteractionSnapshot()
	}
	return args.Get(0).(*domain.InteractionSnapshot)
}

// MockTicketSnapshots is a mock implementation of ports.TicketSnapshots
type MockTicketSnapshots struct {
	mock.Mock
}

func NewMockTicketSnapshots() *MockTicketSnapshots {
	return &MockTicketSnapshots{}
}

func (m *MockTicketSnapshots) Tickets() ([]domain.Ticket, uint64) {
	args := m.Called()
	if args.Get(0) == nil {
		return []domain.Ticket{}, args.Get(1).(uint64)
	}
	return args.Get(0).([]domain.Ticket), args.Get(1).(uint64)
}

func (m *MockTicketSnapshots) State() domain.SyncState {
	args := m.Called()
	return args.Get(0).(domain.SyncState)
}

func (m *MockTicketSnapshots) Refresh() {
	m.Called()
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockCredentialSource is a mock implementation of ports.CredentialSource
type MockCredentialSource struct {
	mock.Mock
}

func NewMockCredentialSource() *MockCredentialSource {
	return &MockCredentialSource{}
}

func (m *MockCredentialSource) BearerToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
