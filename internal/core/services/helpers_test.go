package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/ticket-sync/internal/core/domain"
)

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ticketAt(id int64, status, priority, category string, created time.Time) domain.Ticket {
	return domain.Ticket{
		ID:        id,
		Title:     "Ticket",
		Status:    status,
		Priority:  priority,
		Category:  category,
		CreatedAt: created.UTC().Format("2006-01-02T15:04:05.000000"),
	}
}

type trackedEvent struct {
	Event string
	Meta  map[string]any
}

// recordingRecorder is an InteractionRecorder that keeps every tracked event.
type recordingRecorder struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (r *recordingRecorder) Track(_ context.Context, event string, meta map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, trackedEvent{Event: event, Meta: meta})
}

func (r *recordingRecorder) Snapshot(context.Context) *domain.InteractionSnapshot {
	return domain.NewInteractionSnapshot()
}

func (r *recordingRecorder) Events() []trackedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]trackedEvent(nil), r.events...)
}

func (r *recordingRecorder) Count(event string) int {
	n := 0
	for _, e := range r.Events() {
		if e.Event == event {
			n++
		}
	}
	return n
}

type staticIdentity struct {
	user domain.SessionUser
	ok   bool
}

func (s staticIdentity) Scope() string {
	if !s.ok {
		return domain.GuestScope
	}
	return s.user.Scope()
}

func (s staticIdentity) User() (domain.SessionUser, bool) {
	return s.user, s.ok
}
