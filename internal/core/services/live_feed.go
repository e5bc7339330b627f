package services

import (
	"log/slog"
	"sync"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

// SnapshotEvent is the payload of a SNAPSHOT_UPDATED push.
type SnapshotEvent struct {
	Sync      domain.SyncState   `json:"sync"`
	Analytics *SnapshotAnalytics `json:"analytics"`
}

// LiveFeed pushes every applied sync result to live consumers.
type LiveFeed struct {
	dashboards  *DashboardService
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger

	mu   sync.Mutex
	last *domain.Event
}

func NewLiveFeed(dashboards *DashboardService, broadcaster ports.EventBroadcaster, logger *slog.Logger) *LiveFeed {
	return &LiveFeed{
		dashboards:  dashboards,
		broadcaster: broadcaster,
		logger:      logger.With("component", "live_feed"),
	}
}

// OnSync is a ports.SyncListener.
func (f *LiveFeed) OnSync(state domain.SyncState, tickets []domain.Ticket) {
	event := domain.Event{
		Type: domain.EventSnapshotUpdated,
		Payload: SnapshotEvent{
			Sync:      state,
			Analytics: f.dashboards.analyticsFor(tickets, state.Version),
		},
	}
	if state.LastError != "" {
		event = domain.Event{Type: domain.EventSyncFailed, Payload: SnapshotEvent{Sync: state}}
	} else {
		f.mu.Lock()
		f.last = &event
		f.mu.Unlock()
	}

	if err := f.broadcaster.Broadcast(event); err != nil {
		f.logger.Warn("failed to broadcast sync event", "type", event.Type, "error", err)
	}
}

// Last returns the most recent snapshot event, for consumers that connect
// between syncs.
func (f *LiveFeed) Last() (domain.Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return domain.Event{}, false
	}
	return *f.last, true
}
