package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/mocks"
	"github.com/lorrc/ticket-sync/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryService(t *testing.T, snapshots *mocks.MockTicketSnapshots, recorder *recordingRecorder) *services.HistoryService {
	t.Helper()
	index, err := services.NewSearchIndex(8)
	require.NoError(t, err)
	return services.NewHistoryService(snapshots, recorder, index, services.NewSearchTracker(recorder, testDebounce))
}

func TestHistoryService_Search(t *testing.T) {
	snapshots := mocks.NewMockTicketSnapshots()
	snapshots.On("Tickets").Return(historyTickets(), uint64(1))
	snapshots.On("State").Return(domain.SyncState{Version: 1, Count: 4})

	recorder := &recordingRecorder{}
	svc := newHistoryService(t, snapshots, recorder)

	page := svc.Search(context.Background(), "Hardware")
	assert.Equal(t, "Hardware", page.Term)
	assert.Equal(t, []int64{2, 4}, ids(page.Tickets))
	assert.Equal(t, 2, page.Matched)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, uint64(1), page.Sync.Version)

	require.Eventually(t, func() bool {
		return recorder.Count(domain.EventHistorySearches) == 1
	}, time.Second, 5*time.Millisecond)

	all := svc.Search(context.Background(), "")
	assert.Len(t, all.Tickets, 4)
}

func TestHistoryService_RecordView(t *testing.T) {
	recorder := &recordingRecorder{}
	svc := newHistoryService(t, mocks.NewMockTicketSnapshots(), recorder)

	svc.RecordView(context.Background())
	assert.Equal(t, 1, recorder.Count(domain.EventHistoryViews))
}

func TestHistoryService_ExportUsesFilteredSubset(t *testing.T) {
	snapshots := mocks.NewMockTicketSnapshots()
	snapshots.On("Tickets").Return(historyTickets(), uint64(1))

	recorder := &recordingRecorder{}
	svc := newHistoryService(t, snapshots, recorder)

	export, err := svc.Export(context.Background(), "vpn")
	require.NoError(t, err)

	assert.Equal(t, "ticket-history.xlsx", export.FileName)
	assert.Equal(t, services.ExportContentType, export.ContentType)
	assert.Equal(t, 2, export.Rows)

	rows, err := services.ReadExport(bytes.NewReader(export.Content))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2", rows[2][0])

	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventHistoryExports, events[0].Event)
	assert.Equal(t, map[string]any{"row_count": 2}, events[0].Meta)
}

func TestHistoryService_ExportEmptyMatch(t *testing.T) {
	snapshots := mocks.NewMockTicketSnapshots()
	snapshots.On("Tickets").Return(historyTickets(), uint64(1))

	svc := newHistoryService(t, snapshots, &recordingRecorder{})

	export, err := svc.Export(context.Background(), "nothing matches this")
	require.NoError(t, err)
	assert.Zero(t, export.Rows)

	rows, err := services.ReadExport(bytes.NewReader(export.Content))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
