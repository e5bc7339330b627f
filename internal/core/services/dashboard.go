package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/ports"
	"github.com/lorrc/ticket-sync/internal/infrastructure/clock"
)

const (
	UserRecentLimit    = 5
	AdminRecentLimit   = 6
	AdminActionLimit   = 8
	AdminRoleLabel     = "Support Administrator"
	missingDisplayText = "-"
)

// SnapshotAnalytics is everything derived from one ticket snapshot. A value
// is computed once per snapshot version and shared by all readers.
type SnapshotAnalytics struct {
	Version        uint64                   `json:"version"`
	Metrics        domain.DerivedMetrics    `json:"metrics"`
	InProgress     int                      `json:"in_progress"`
	Statuses       []domain.StatusCount     `json:"statuses"`
	StatusSegments []domain.ChartSegment    `json:"status_segments"`
	Pie            domain.PieGeometry       `json:"pie"`
	PieCSS         string                   `json:"pie_css"`
	Categories     domain.DistributionTable `json:"categories"`
	Priorities     domain.DistributionTable `json:"priorities"`
	CategoryBars   []domain.Bar             `json:"category_bars"`
	PriorityBars   []domain.Bar             `json:"priority_bars"`
	AdminPriority  []domain.Bar             `json:"admin_priority_bars"`
	ComputedAt     time.Time                `json:"computed_at"`
}

// RecentTicket is a ticket with its age rendered for display.
type RecentTicket struct {
	domain.Ticket
	Since string `json:"since"`
}

// UserDashboard is the requester-facing live dashboard.
type UserDashboard struct {
	*SnapshotAnalytics
	Recent              []RecentTicket   `json:"recent"`
	Sync                domain.SyncState `json:"sync"`
	PollIntervalSeconds int              `json:"poll_interval_seconds"`
}

// ActionCard is one ticket in the admin action grid.
type ActionCard struct {
	domain.Ticket
	CanonicalStatus domain.CanonicalStatus `json:"canonical_status"`
	StatusLabel     string                 `json:"status_label"`
	CreatedDate     string                 `json:"created_date"`
}

// AdminProfile describes the signed-in administrator.
type AdminProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	AdminID string `json:"admin_id"`
	Role    string `json:"role"`
}

// AdminDashboard is the administrator analytics view.
type AdminDashboard struct {
	Profile       AdminProfile          `json:"profile"`
	Metrics       domain.DerivedMetrics `json:"metrics"`
	PriorityBars  []domain.Bar          `json:"priority_bars"`
	Recent        []domain.Ticket       `json:"recent"`
	ActionCards   []ActionCard          `json:"action_cards"`
	StatusOptions []string              `json:"status_options"`
	Sync          domain.SyncState      `json:"sync"`
}

// DashboardService composes dashboard views from the poller's snapshots.
type DashboardService struct {
	snapshots    ports.TicketSnapshots
	recorder     ports.InteractionRecorder
	identity     ports.IdentityScope
	clock        clock.Clock
	pollInterval time.Duration

	mu     sync.Mutex
	cached *SnapshotAnalytics
}

func NewDashboardService(
	snapshots ports.TicketSnapshots,
	recorder ports.InteractionRecorder,
	identity ports.IdentityScope,
	clk clock.Clock,
	pollInterval time.Duration,
) *DashboardService {
	return &DashboardService{
		snapshots:    snapshots,
		recorder:     recorder,
		identity:     identity,
		clock:        clk,
		pollInterval: pollInterval,
	}
}

// Analytics returns the derived values for the current snapshot. The same
// pointer is returned until the snapshot version changes.
func (s *DashboardService) Analytics() *SnapshotAnalytics {
	tickets, version := s.snapshots.Tickets()
	return s.analyticsFor(tickets, version)
}

func (s *DashboardService) analyticsFor(tickets []domain.Ticket, version uint64) *SnapshotAnalytics {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.cached.Version == version {
		return s.cached
	}
	s.cached = ComputeAnalytics(tickets, version, s.clock.Now())
	return s.cached
}

// ComputeAnalytics derives every dashboard aggregate from tickets.
func ComputeAnalytics(tickets []domain.Ticket, version uint64, now time.Time) *SnapshotAnalytics {
	metrics := ComputeMetrics(tickets, now)
	segments := StatusSegments(metrics)
	pie := BuildPie(segments)
	categories := Distribute(tickets, ByCategory)
	priorities := Distribute(tickets, ByPriority)

	return &SnapshotAnalytics{
		Version:        version,
		Metrics:        metrics,
		InProgress:     metrics.InProgress(),
		Statuses:       StatusDistribution(tickets),
		StatusSegments: segments,
		Pie:            pie,
		PieCSS:         pie.CSS(),
		Categories:     categories,
		Priorities:     priorities,
		CategoryBars:   BuildBars(categories),
		PriorityBars:   BuildBars(priorities),
		AdminPriority:  PriorityBars(metrics),
		ComputedAt:     now,
	}
}

// UserDashboard builds the requester dashboard and records the view.
func (s *DashboardService) UserDashboard(ctx context.Context) *UserDashboard {
	s.recorder.Track(ctx, domain.EventDashboardViews, nil)

	tickets, version := s.snapshots.Tickets()
	now := s.clock.Now()

	recent := make([]RecentTicket, 0, min(len(tickets), UserRecentLimit))
	for _, t := range tickets[:min(len(tickets), UserRecentLimit)] {
		recent = append(recent, RecentTicket{Ticket: t, Since: domain.SinceLabel(t.CreatedAt, now)})
	}

	return &UserDashboard{
		SnapshotAnalytics:   s.analyticsFor(tickets, version),
		Recent:              recent,
		Sync:                s.snapshots.State(),
		PollIntervalSeconds: int(s.pollInterval / time.Second),
	}
}

// AdminDashboard builds the administrator view and records the view.
func (s *DashboardService) AdminDashboard(ctx context.Context) *AdminDashboard {
	s.recorder.Track(ctx, domain.EventAdminViews, nil)

	tickets, version := s.snapshots.Tickets()
	analytics := s.analyticsFor(tickets, version)

	cards := make([]ActionCard, 0, min(len(tickets), AdminActionLimit))
	for _, t := range tickets[:min(len(tickets), AdminActionLimit)] {
		status := t.CanonicalStatus()
		cards = append(cards, ActionCard{
			Ticket:          t,
			CanonicalStatus: status,
			StatusLabel:     status.Label(),
			CreatedDate:     createdDate(t),
		})
	}

	return &AdminDashboard{
		Profile:       s.adminProfile(),
		Metrics:       analytics.Metrics,
		PriorityBars:  analytics.AdminPriority,
		Recent:        append([]domain.Ticket{}, tickets[:min(len(tickets), AdminRecentLimit)]...),
		ActionCards:   cards,
		StatusOptions: domain.StatusLabels(),
		Sync:          s.snapshots.State(),
	}
}

func (s *DashboardService) adminProfile() AdminProfile {
	profile := AdminProfile{
		Name:    "Admin",
		Email:   missingDisplayText,
		AdminID: missingDisplayText,
		Role:    AdminRoleLabel,
	}
	if s.identity == nil {
		return profile
	}
	user, ok := s.identity.User()
	if !ok {
		return profile
	}
	if user.Username != "" {
		profile.Name = user.Username
	}
	if user.Email != "" {
		profile.Email = user.Email
	}
	if user.ID > 0 {
		profile.AdminID = fmt.Sprintf("ADM-%04d", user.ID)
	}
	return profile
}

func createdDate(t domain.Ticket) string {
	created, ok := t.CreatedTime()
	if !ok {
		return missingDisplayText
	}
	return created.UTC().Format(time.DateOnly)
}
