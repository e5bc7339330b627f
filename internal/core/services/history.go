package services

import (
	"context"
	"sync"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

// HistoryPage is one rendering of the ticket history table.
type HistoryPage struct {
	Term    string           `json:"term"`
	Tickets []domain.Ticket  `json:"tickets"`
	Matched int              `json:"matched"`
	Total   int              `json:"total"`
	Sync    domain.SyncState `json:"sync"`
}

// HistoryExport is a rendered spreadsheet of the filtered tickets.
type HistoryExport struct {
	FileName    string
	ContentType string
	Rows        int
	Content     []byte
}

// HistoryService serves the searchable ticket history and its export.
type HistoryService struct {
	snapshots ports.TicketSnapshots
	recorder  ports.InteractionRecorder
	index     *SearchIndex
	tracker   *SearchTracker

	mu          sync.Mutex
	fpVersion   uint64
	fingerprint Fingerprint
	hasFP       bool
}

func NewHistoryService(
	snapshots ports.TicketSnapshots,
	recorder ports.InteractionRecorder,
	index *SearchIndex,
	tracker *SearchTracker,
) *HistoryService {
	return &HistoryService{
		snapshots: snapshots,
		recorder:  recorder,
		index:     index,
		tracker:   tracker,
	}
}

// RecordView counts a history page load.
func (s *HistoryService) RecordView(ctx context.Context) {
	s.recorder.Track(ctx, domain.EventHistoryViews, nil)
}

// Search filters the current snapshot by term and reports the term to the
// debounced search tracker.
func (s *HistoryService) Search(ctx context.Context, term string) *HistoryPage {
	s.tracker.Observe(ctx, term)

	tickets, matched := s.filtered(term)
	return &HistoryPage{
		Term:    term,
		Tickets: matched,
		Matched: len(matched),
		Total:   len(tickets),
		Sync:    s.snapshots.State(),
	}
}

// Export renders the tickets matching term, the same subset Search shows.
func (s *HistoryService) Export(ctx context.Context, term string) (*HistoryExport, error) {
	_, matched := s.filtered(term)

	s.recorder.Track(ctx, domain.EventHistoryExports, map[string]any{"row_count": len(matched)})

	content, err := ExportTickets(matched)
	if err != nil {
		return nil, err
	}
	return &HistoryExport{
		FileName:    ExportFileName,
		ContentType: ExportContentType,
		Rows:        len(matched),
		Content:     content,
	}, nil
}

func (s *HistoryService) filtered(term string) ([]domain.Ticket, []domain.Ticket) {
	tickets, version := s.snapshots.Tickets()
	return tickets, s.index.Filter(s.fingerprintFor(tickets, version), tickets, term)
}

func (s *HistoryService) fingerprintFor(tickets []domain.Ticket, version uint64) Fingerprint {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasFP || s.fpVersion != version {
		s.fingerprint = FingerprintTickets(tickets)
		s.fpVersion = version
		s.hasFP = true
	}
	return s.fingerprint
}
