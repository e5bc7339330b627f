package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	apperrors "github.com/lorrc/ticket-sync/internal/core/errors"
)

const (
	ExportFileName    = "ticket-history.xlsx"
	ExportSheetName   = "Tickets"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type exportColumn struct {
	header string
	width  float64
	value  func(t domain.Ticket) any
}

var exportColumns = []exportColumn{
	{"Ticket ID", 12, func(t domain.Ticket) any { return t.ID }},
	{"Title", 32, func(t domain.Ticket) any { return t.Title }},
	{"Category", 18, func(t domain.Ticket) any { return t.Category }},
	{"Priority", 16, func(t domain.Ticket) any { return t.Priority }},
	{"Status", 14, func(t domain.Ticket) any { return t.Status }},
	{"Admin Comment", 34, func(t domain.Ticket) any { return t.AdminComment }},
	{"Created", 22, func(t domain.Ticket) any { return t.CreatedAt }},
}

// ExportHeaders returns the column headers in document order.
func ExportHeaders() []string {
	headers := make([]string, len(exportColumns))
	for i, c := range exportColumns {
		headers[i] = c.header
	}
	return headers
}

// ExportTickets renders tickets as a single-sheet xlsx workbook, one row per
// ticket below a header row. No tickets yields a header-only document.
func ExportTickets(tickets []domain.Ticket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return nil, fmt.Errorf("%w: rename sheet: %v", apperrors.ErrExportFailed, err)
	}

	header := make([]any, len(exportColumns))
	for i, c := range exportColumns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrExportFailed, err)
		}
		if err := f.SetColWidth(ExportSheetName, col, col, c.width); err != nil {
			return nil, fmt.Errorf("%w: column width: %v", apperrors.ErrExportFailed, err)
		}
		header[i] = c.header
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("%w: header row: %v", apperrors.ErrExportFailed, err)
	}

	for r, t := range tickets {
		row := make([]any, len(exportColumns))
		for i, c := range exportColumns {
			row[i] = c.value(t)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrExportFailed, err)
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", apperrors.ErrExportFailed, r+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: write workbook: %v", apperrors.ErrExportFailed, err)
	}
	return buf.Bytes(), nil
}

// ReadExport loads a workbook produced by ExportTickets and returns its
// rows, header included, each padded to the full column count.
func ReadExport(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ExportSheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", ExportSheetName, err)
	}
	for i, row := range rows {
		for len(row) < len(exportColumns) {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}
