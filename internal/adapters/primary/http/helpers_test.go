package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	wsAdapter "github.com/lorrc/ticket-sync/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/mocks"
	"github.com/lorrc/ticket-sync/internal/core/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDashboards struct {
	user  *services.UserDashboard
	admin *services.AdminDashboard
}

func (f *fakeDashboards) UserDashboard(context.Context) *services.UserDashboard   { return f.user }
func (f *fakeDashboards) AdminDashboard(context.Context) *services.AdminDashboard { return f.admin }

type fakeActions struct {
	mock.Mock
}

func (f *fakeActions) UpdateTicket(ctx context.Context, ticketID int64, req services.UpdateTicketRequest) (*domain.Ticket, error) {
	args := f.Called(ticketID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (f *fakeActions) DeleteTicket(ctx context.Context, ticketID int64) error {
	return f.Called(ticketID).Error(0)
}

type fakeHistory struct {
	mock.Mock
}

func (f *fakeHistory) RecordView(context.Context) {
	f.Called()
}

func (f *fakeHistory) Search(ctx context.Context, term string) *services.HistoryPage {
	return f.Called(term).Get(0).(*services.HistoryPage)
}

func (f *fakeHistory) Export(ctx context.Context, term string) (*services.HistoryExport, error) {
	args := f.Called(term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.HistoryExport), args.Error(1)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.WindowEvent
}

func (c *capturePublisher) Publish(event domain.WindowEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *capturePublisher) Events() []domain.WindowEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.WindowEvent(nil), c.events...)
}

type staticFeed struct {
	event domain.Event
	ok    bool
}

func (s staticFeed) Last() (domain.Event, bool) { return s.event, s.ok }

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubSync struct{ state domain.SyncState }

func (s stubSync) State() domain.SyncState { return s.state }

type stubIdentity struct {
	user *domain.SessionUser
}

func (s *stubIdentity) Scope() string {
	if s.user == nil {
		return domain.GuestScope
	}
	return s.user.Scope()
}

func (s *stubIdentity) User() (domain.SessionUser, bool) {
	if s.user == nil {
		return domain.SessionUser{}, false
	}
	return *s.user, true
}

type testServer struct {
	router       stdhttp.Handler
	dashboards   *fakeDashboards
	actions      *fakeActions
	history      *fakeHistory
	recorder     *mocks.MockInteractionRecorder
	publisher    *capturePublisher
	hub          *wsAdapter.Hub
	remoteHealth *stubPinger
	syncHealth   *stubSync
	identity     *stubIdentity
}

func newTestServer(t *testing.T, feed SnapshotFeed) *testServer {
	t.Helper()

	logger := discardLogger()
	errorHandler := NewErrorHandler(logger)
	syncedAt := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	ts := &testServer{
		dashboards:   &fakeDashboards{},
		actions:      &fakeActions{},
		history:      &fakeHistory{},
		recorder:     mocks.NewMockInteractionRecorder(),
		publisher:    &capturePublisher{},
		hub:          wsAdapter.NewHub(logger),
		remoteHealth: &stubPinger{},
		syncHealth:   &stubSync{state: domain.SyncState{LastSyncAt: &syncedAt, Version: 1}},
		identity:     &stubIdentity{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go ts.hub.Run(ctx)

	ts.router = NewRouter(RouterConfig{
		Logger:         logger,
		AllowedOrigins: []string{"http://localhost:3000"},
		Identity:       ts.identity,
		Health:         NewHealthHandler(ts.remoteHealth, ts.syncHealth, "test"),
		Me:             NewMeHandler(ts.identity, logger),
		Dashboards:     NewDashboardHandler(ts.dashboards, logger),
		Admin:          NewAdminHandler(ts.actions, errorHandler, logger),
		History:        NewHistoryHandler(ts.history, errorHandler, logger),
		Interactions:   NewInteractionHandler(ts.recorder, errorHandler, logger),
		Window:         NewWindowHandler(ts.publisher, errorHandler, logger),
		WebSocket: NewWebSocketHandler(ts.hub, feed, ts.publisher, WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			IsDevelopment:   true,
		}, logger),
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func newRequest(method, target string) *stdhttp.Request {
	return httptest.NewRequest(method, target, nil)
}

func serve(ts *testServer, req *stdhttp.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}
