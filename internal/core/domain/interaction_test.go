package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionSnapshot_Record(t *testing.T) {
	at := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	s := domain.NewInteractionSnapshot()
	assert.Nil(t, s.UpdatedAt)

	s.Record("history_views", nil, at)
	s.Record("history_searches", map[string]any{"term_length": 4}, at.Add(time.Second))
	s.Record("history_views", nil, at.Add(2*time.Second))

	assert.Equal(t, map[string]int{"history_views": 2, "history_searches": 1}, s.Counters)
	require.Len(t, s.Recent, 3)
	assert.Equal(t, "history_views", s.Recent[0].Event)
	assert.Equal(t, "history_searches", s.Recent[1].Event)
	assert.Equal(t, 4, s.Recent[1].Meta["term_length"])
	assert.NotNil(t, s.Recent[0].Meta)
	require.NotNil(t, s.UpdatedAt)
	assert.Equal(t, at.Add(2*time.Second), *s.UpdatedAt)
}

func TestInteractionSnapshot_RecentIsCapped(t *testing.T) {
	at := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	s := domain.NewInteractionSnapshot()

	for i := 0; i < domain.MaxRecentInteractions+15; i++ {
		s.Record(fmt.Sprintf("event_%d", i), nil, at.Add(time.Duration(i)*time.Second))
	}

	require.Len(t, s.Recent, domain.MaxRecentInteractions)
	assert.Equal(t, "event_94", s.Recent[0].Event)
	assert.Equal(t, "event_15", s.Recent[len(s.Recent)-1].Event)
	assert.Len(t, s.Counters, domain.MaxRecentInteractions+15)
}

func TestInteractionSnapshot_Sanitize(t *testing.T) {
	s := (&domain.InteractionSnapshot{}).Sanitize()
	assert.NotNil(t, s.Counters)
	assert.NotNil(t, s.Recent)

	long := &domain.InteractionSnapshot{Recent: make([]domain.InteractionEvent, 200)}
	assert.Len(t, long.Sanitize().Recent, domain.MaxRecentInteractions)
}

func TestResolveScope(t *testing.T) {
	assert.Equal(t, "ana@example.com", domain.ResolveScope("ana@example.com", "ana"))
	assert.Equal(t, "ana", domain.ResolveScope("", "ana"))
	assert.Equal(t, domain.GuestScope, domain.ResolveScope("", ""))
	assert.Equal(t, "ana", domain.SessionUser{Username: "ana"}.Scope())
}

func TestInteractionKey(t *testing.T) {
	assert.Equal(t, "zt_analytics_v1:ana@example.com", domain.InteractionKey("ana@example.com"))
	assert.Equal(t, "zt_analytics_v1:guest", domain.InteractionKey(""))
}
