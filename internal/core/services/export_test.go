package services_test

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportTickets_RoundTrip(t *testing.T) {
	filtered := services.FilterTickets([]domain.Ticket{
		{ID: 11, Title: "VPN drops", Category: "network", Priority: "High", Status: "Open", CreatedAt: "2024-05-20T09:30:15.123456"},
		{ID: 12, Title: "Printer", Category: "hardware", Priority: "Low", Status: "Resolved", AdminComment: "Replaced toner", CreatedAt: "2024-05-19T08:00:00"},
		{ID: 13, Title: "Password", Category: "access", Priority: "Medium", Status: "In Progress", CreatedAt: ""},
	}, "r")

	content, err := services.ExportTickets(filtered)
	require.NoError(t, err)

	rows, err := services.ReadExport(bytes.NewReader(content))
	require.NoError(t, err)
	require.Len(t, rows, len(filtered)+1)

	assert.Equal(t, []string{"Ticket ID", "Title", "Category", "Priority", "Status", "Admin Comment", "Created"}, rows[0])
	assert.Equal(t, services.ExportHeaders(), rows[0])

	for i, ticket := range filtered {
		assert.Equal(t, []string{
			strconv.FormatInt(ticket.ID, 10),
			ticket.Title,
			ticket.Category,
			ticket.Priority,
			ticket.Status,
			ticket.AdminComment,
			ticket.CreatedAt,
		}, rows[i+1])
	}
}

func TestExportTickets_HeaderOnly(t *testing.T) {
	content, err := services.ExportTickets(nil)
	require.NoError(t, err)

	rows, err := services.ReadExport(bytes.NewReader(content))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, services.ExportHeaders(), rows[0])
}

func TestExportTickets_WorkbookLayout(t *testing.T) {
	content, err := services.ExportTickets([]domain.Ticket{{ID: 1, Title: "x"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{services.ExportSheetName}, f.GetSheetList())

	widths := map[string]float64{"A": 12, "B": 32, "C": 18, "D": 16, "E": 14, "F": 34, "G": 22}
	for col, want := range widths {
		got, err := f.GetColWidth(services.ExportSheetName, col)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %s", col)
	}
}

func TestReadExport_RejectsGarbage(t *testing.T) {
	_, err := services.ReadExport(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
