package services

import (
	"time"

	"github.com/lorrc/ticket-sync/internal/core/domain"
)

// RecentWindow is the look-back used for the "raised in the last 24h" count.
const RecentWindow = 24 * time.Hour

// ComputeMetrics derives the dashboard counts for a collection, evaluated at
// now. It is total: tickets with missing or unparseable timestamps are left
// out of Last24h and nothing else.
func ComputeMetrics(tickets []domain.Ticket, now time.Time) domain.DerivedMetrics {
	m := domain.DerivedMetrics{Total: len(tickets)}

	for _, t := range tickets {
		switch t.CanonicalStatus() {
		case domain.StatusOpen:
			m.Open++
		case domain.StatusResolved:
			m.Resolved++
		}

		switch {
		case t.HasPriority("high"):
			m.High++
		case t.HasPriority("medium"):
			m.Medium++
		case t.HasPriority("low"):
			m.Low++
		}

		if created, ok := t.CreatedTime(); ok && now.Sub(created) <= RecentWindow {
			m.Last24h++
		}
	}

	return m
}

// StatusDistribution counts tickets per canonical status, always in the
// order open, in progress, resolved.
func StatusDistribution(tickets []domain.Ticket) []domain.StatusCount {
	counts := map[domain.CanonicalStatus]int{}
	for _, t := range tickets {
		counts[t.CanonicalStatus()]++
	}
	return []domain.StatusCount{
		{Status: domain.StatusOpen, Count: counts[domain.StatusOpen]},
		{Status: domain.StatusInProgress, Count: counts[domain.StatusInProgress]},
		{Status: domain.StatusResolved, Count: counts[domain.StatusResolved]},
	}
}
