package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bep/debounce"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

const (
	// DefaultSearchDebounce is how long typing must pause before a search
	// term is reported.
	DefaultSearchDebounce = 350 * time.Millisecond

	// MinTrackedTermLength is the shortest search term worth reporting.
	MinTrackedTermLength = 2
)

// SearchTracker reports settled search terms to the interaction recorder
// with a trailing debounce. A term is reported at most once in a row.
type SearchTracker struct {
	recorder  ports.InteractionRecorder
	debounced func(f func())

	mu          sync.Mutex
	pending     string
	lastTracked string
}

// NewSearchTracker creates a tracker with the given quiet period.
func NewSearchTracker(recorder ports.InteractionRecorder, delay time.Duration) *SearchTracker {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &SearchTracker{
		recorder:  recorder,
		debounced: debounce.New(delay),
	}
}

// NormalizeSearchTerm is the form in which a term is compared and reported.
func NormalizeSearchTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Observe records a keystroke. Any earlier pending report is superseded;
// terms that are too short or equal to the last reported term cancel it.
func (s *SearchTracker) Observe(ctx context.Context, raw string) {
	term := NormalizeSearchTerm(raw)

	s.mu.Lock()
	eligible := utf8.RuneCountInString(term) >= MinTrackedTermLength && term != s.lastTracked
	s.pending = term
	s.mu.Unlock()

	if !eligible {
		s.debounced(func() {})
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.debounced(func() { s.flush(ctx, term) })
}

func (s *SearchTracker) flush(ctx context.Context, term string) {
	s.mu.Lock()
	if s.pending != term || term == s.lastTracked {
		s.mu.Unlock()
		return
	}
	s.lastTracked = term
	s.mu.Unlock()

	s.recorder.Track(ctx, domain.EventHistorySearches, map[string]any{
		"term_length": utf8.RuneCountInString(term),
	})
}

// LastTracked returns the most recently reported term.
func (s *SearchTracker) LastTracked() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTracked
}
