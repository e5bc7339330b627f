package domain

import "time"

const (
	// InteractionKeyPrefix scopes persisted snapshots. Format changes are
	// migrated by rotating this prefix.
	InteractionKeyPrefix = "zt_analytics_v1"

	// MaxRecentInteractions caps the recent-event ring.
	MaxRecentInteractions = 80

	GuestScope = "guest"
)

// Interaction event names recorded by the dashboards.
const (
	EventDashboardViews  = "dashboard_views"
	EventAdminViews      = "admin_dashboard_views"
	EventHistoryViews    = "history_views"
	EventHistorySearches = "history_searches"
	EventHistoryExports  = "history_exports"
	EventTicketUpdates   = "admin_ticket_updates"
	EventTicketDeletes   = "admin_ticket_deletes"
)

// InteractionEvent is one entry of the recent-event log.
type InteractionEvent struct {
	Event string         `json:"event"`
	At    time.Time      `json:"at"`
	Meta  map[string]any `json:"meta"`
}

// InteractionSnapshot is the persisted per-user usage record.
type InteractionSnapshot struct {
	Counters  map[string]int     `json:"counters"`
	Recent    []InteractionEvent `json:"recent"`
	UpdatedAt *time.Time         `json:"updated_at"`
}

// NewInteractionSnapshot returns the empty default snapshot.
func NewInteractionSnapshot() *InteractionSnapshot {
	return &InteractionSnapshot{
		Counters: map[string]int{},
		Recent:   []InteractionEvent{},
	}
}

// Sanitize fills in missing collections so that partially written or
// foreign payloads still satisfy the default-value contract.
func (s *InteractionSnapshot) Sanitize() *InteractionSnapshot {
	if s.Counters == nil {
		s.Counters = map[string]int{}
	}
	if s.Recent == nil {
		s.Recent = []InteractionEvent{}
	}
	if len(s.Recent) > MaxRecentInteractions {
		s.Recent = s.Recent[:MaxRecentInteractions]
	}
	return s
}

// Record counts the event and prepends it to the recent log, dropping the
// oldest entries beyond MaxRecentInteractions.
func (s *InteractionSnapshot) Record(event string, meta map[string]any, at time.Time) {
	s.Sanitize()
	if meta == nil {
		meta = map[string]any{}
	}

	s.Counters[event]++

	recent := make([]InteractionEvent, 0, min(len(s.Recent)+1, MaxRecentInteractions))
	recent = append(recent, InteractionEvent{Event: event, At: at, Meta: meta})
	for _, e := range s.Recent {
		if len(recent) == MaxRecentInteractions {
			break
		}
		recent = append(recent, e)
	}
	s.Recent = recent
	s.UpdatedAt = &at
}

// InteractionKey returns the storage key for a scope.
func InteractionKey(scope string) string {
	if scope == "" {
		scope = GuestScope
	}
	return InteractionKeyPrefix + ":" + scope
}
