package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/ports"
	"github.com/lorrc/ticket-sync/internal/infrastructure/clock"
)

// DefaultPollInterval is the refresh period of the live dashboards.
const DefaultPollInterval = 3 * time.Second

// PollerConfig tunes the ticket sync poller.
type PollerConfig struct {
	Interval time.Duration
	// RequestTimeout bounds a single fetch. Zero means no extra bound.
	RequestTimeout time.Duration
	// ClearOnError empties the collection when a fetch fails instead of
	// keeping the last good snapshot.
	ClearOnError bool
	// TriggerRate and TriggerBurst throttle fetches caused by focus and
	// visibility events. A non-positive rate disables throttling.
	TriggerRate  float64
	TriggerBurst int
}

// TicketSyncPoller owns the local ticket collection and is its only
// writer. It refreshes on a fixed interval and on focus/visibility events.
//
// Each activation gets a new generation. A fetch is tagged with the
// generation it was issued under and its result is dropped unless that
// generation is still active when it completes.
type TicketSyncPoller struct {
	source  ports.TicketSource
	events  ports.WindowEvents
	clock   clock.Clock
	cfg     PollerConfig
	limiter *rate.Limiter
	logger  *slog.Logger

	mu          sync.Mutex
	tickets     []domain.Ticket
	loading     bool
	lastSyncAt  *time.Time
	lastErr     string
	version     uint64
	generation  uint64
	active      bool
	ctx         context.Context
	ticker      *clock.Ticker
	stopTicks   chan struct{}
	unsubscribe []func()
	listeners   []ports.SyncListener

	// notifyMu keeps listener callbacks in the order results were applied.
	notifyMu sync.Mutex
	inflight sync.WaitGroup
}

var _ ports.TicketSnapshots = (*TicketSyncPoller)(nil)

// NewTicketSyncPoller creates an inactive poller. events may be nil when
// the process has no window signals.
func NewTicketSyncPoller(
	source ports.TicketSource,
	events ports.WindowEvents,
	clk clock.Clock,
	cfg PollerConfig,
	logger *slog.Logger,
) *TicketSyncPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	limit := rate.Inf
	if cfg.TriggerRate > 0 {
		limit = rate.Limit(cfg.TriggerRate)
	}
	if cfg.TriggerBurst < 1 {
		cfg.TriggerBurst = 1
	}

	return &TicketSyncPoller{
		source:  source,
		events:  events,
		clock:   clk,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, cfg.TriggerBurst),
		logger:  logger.With("component", "ticket_sync_poller"),
		tickets: []domain.Ticket{},
		loading: true,
	}
}

// OnSync registers a listener for applied sync results.
func (p *TicketSyncPoller) OnSync(listener ports.SyncListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, listener)
}

// Start activates the poller: it fetches immediately, then on every tick
// and on focus or visible events. Calling Start on an active poller is a
// no-op.
func (p *TicketSyncPoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		return
	}

	p.generation++
	gen := p.generation
	p.active = true
	p.ctx = ctx
	p.ticker = p.clock.NewTicker(p.cfg.Interval)
	p.stopTicks = make(chan struct{})

	if p.events != nil {
		p.unsubscribe = append(p.unsubscribe,
			p.events.Subscribe(domain.WindowFocus, func(domain.WindowEvent) {
				p.trigger(gen, "focus")
			}),
			p.events.Subscribe(domain.WindowVisibility, func(ev domain.WindowEvent) {
				if ev.Visible {
					p.trigger(gen, "visible")
				}
			}),
		)
	}

	go p.tickLoop(gen, p.ticker, p.stopTicks)
	p.mu.Unlock()

	p.logger.Info("ticket sync started", "interval", p.cfg.Interval.String(), "generation", gen)
	p.fetch(gen, "start")
}

// Stop deactivates the poller. The ticker is stopped and both window
// listeners are removed before Stop returns. Fetches still in flight are
// not cancelled, but their results are discarded.
func (p *TicketSyncPoller) Stop() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	p.ticker.Stop()
	close(p.stopTicks)
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	gen := p.generation
	p.mu.Unlock()

	for _, fn := range unsubscribe {
		fn()
	}
	p.logger.Info("ticket sync stopped", "generation", gen)
}

// Wait blocks until every fetch issued so far has completed.
func (p *TicketSyncPoller) Wait() {
	p.inflight.Wait()
}

// Refresh issues an immediate fetch if the poller is active. It is not
// subject to the window-event throttle.
func (p *TicketSyncPoller) Refresh() {
	p.mu.Lock()
	active, gen := p.active, p.generation
	p.mu.Unlock()
	if active {
		p.fetch(gen, "refresh")
	}
}

// Tickets returns the current collection and its version.
func (p *TicketSyncPoller) Tickets() ([]domain.Ticket, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tickets, p.version
}

// State returns the loading flag, last sync time and version.
func (p *TicketSyncPoller) State() domain.SyncState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

func (p *TicketSyncPoller) stateLocked() domain.SyncState {
	return domain.SyncState{
		Loading:    p.loading,
		LastSyncAt: p.lastSyncAt,
		Version:    p.version,
		Count:      len(p.tickets),
		LastError:  p.lastErr,
	}
}

func (p *TicketSyncPoller) tickLoop(gen uint64, ticker *clock.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.fetch(gen, "interval")
		}
	}
}

func (p *TicketSyncPoller) trigger(gen uint64, reason string) {
	if !p.limiter.Allow() {
		p.logger.Debug("refresh trigger throttled", "reason", reason)
		return
	}
	p.fetch(gen, reason)
}

func (p *TicketSyncPoller) isCurrent(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active && p.generation == gen
}

// fetch reads the full collection in the background and applies it.
func (p *TicketSyncPoller) fetch(gen uint64, reason string) {
	if !p.isCurrent(gen) {
		return
	}

	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("panic during ticket sync", "panic", r, "reason", reason)
			}
		}()

		fetchCtx := ctx
		if p.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, p.cfg.RequestTimeout)
			defer cancel()
		}

		tickets, err := p.source.ListTickets(fetchCtx)
		p.apply(gen, reason, tickets, err)
	}()
}

func (p *TicketSyncPoller) apply(gen uint64, reason string, tickets []domain.Ticket, err error) {
	p.mu.Lock()
	if !p.active || p.generation != gen {
		p.mu.Unlock()
		p.logger.Debug("discarding stale sync result", "generation", gen, "reason", reason)
		return
	}

	if err != nil {
		p.lastErr = err.Error()
		if p.cfg.ClearOnError && len(p.tickets) > 0 {
			p.tickets = []domain.Ticket{}
			p.version++
		}
	} else {
		if tickets == nil {
			tickets = []domain.Ticket{}
		}
		p.tickets = tickets
		p.version++
		p.lastErr = ""
	}

	now := p.clock.Now().UTC()
	p.loading = false
	p.lastSyncAt = &now

	state := p.stateLocked()
	snapshot := p.tickets
	listeners := append([]ports.SyncListener(nil), p.listeners...)

	p.notifyMu.Lock()
	p.mu.Unlock()
	defer p.notifyMu.Unlock()

	if err != nil {
		p.logger.Warn("ticket sync failed", "error", err, "reason", reason, "kept", len(snapshot))
	} else {
		p.logger.Debug("ticket sync applied", "count", len(snapshot), "version", state.Version, "reason", reason)
	}

	for _, listener := range listeners {
		listener(state, snapshot)
	}
}
