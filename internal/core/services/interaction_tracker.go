package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	apperrors "github.com/lorrc/ticket-sync/internal/core/errors"
	"github.com/lorrc/ticket-sync/internal/core/ports"
	"github.com/lorrc/ticket-sync/internal/infrastructure/clock"
)

// InteractionTracker keeps per-identity usage counters and a bounded log of
// recent events in a durable store. Every operation is best-effort.
//
// Writes are read-modify-write on the whole snapshot. The mutex orders
// writers inside this process only; another process writing the same key
// can still lose an update.
type InteractionTracker struct {
	store  ports.InteractionStore
	scope  ports.IdentityScope
	clock  clock.Clock
	logger *slog.Logger

	mu sync.Mutex
}

var _ ports.InteractionRecorder = (*InteractionTracker)(nil)

// NewInteractionTracker creates a tracker. A nil store disables persistence.
func NewInteractionTracker(
	store ports.InteractionStore,
	scope ports.IdentityScope,
	clk clock.Clock,
	logger *slog.Logger,
) *InteractionTracker {
	return &InteractionTracker{
		store:  store,
		scope:  scope,
		clock:  clk,
		logger: logger.With("component", "interaction_tracker"),
	}
}

func (t *InteractionTracker) key() string {
	if t.scope == nil {
		return domain.InteractionKey(domain.GuestScope)
	}
	return domain.InteractionKey(t.scope.Scope())
}

// Track counts event and prepends it to the recent log. Failures are logged
// and never returned.
func (t *InteractionTracker) Track(ctx context.Context, event string, meta map[string]any) {
	if event == "" || t.store == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.logger.ErrorContext(ctx, "panic while tracking interaction", "event", event, "panic", r)
		}
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	key := t.key()
	snapshot := t.load(ctx, key)
	snapshot.Record(event, meta, t.clock.Now().UTC())

	payload, err := json.Marshal(snapshot)
	if err != nil {
		t.logger.WarnContext(ctx, "failed to encode interaction snapshot", "event", event, "error", err)
		return
	}
	if err := t.store.Put(ctx, key, payload); err != nil {
		t.logger.WarnContext(ctx, "failed to persist interaction", "event", event, "key", key, "error", err)
		return
	}
	t.logger.DebugContext(ctx, "interaction tracked", "event", event, "count", snapshot.Counters[event])
}

// Snapshot returns the stored snapshot for the current identity, or the
// empty default when nothing usable is stored.
func (t *InteractionTracker) Snapshot(ctx context.Context) *domain.InteractionSnapshot {
	if t.store == nil {
		return domain.NewInteractionSnapshot()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx, t.key())
}

func (t *InteractionTracker) load(ctx context.Context, key string) *domain.InteractionSnapshot {
	raw, err := t.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrKeyNotFound) {
			t.logger.WarnContext(ctx, "failed to read interaction snapshot", "key", key, "error", err)
		}
		return domain.NewInteractionSnapshot()
	}

	var snapshot domain.InteractionSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		t.logger.WarnContext(ctx, "discarding corrupt interaction snapshot", "key", key, "error", err)
		return domain.NewInteractionSnapshot()
	}
	return snapshot.Sanitize()
}
