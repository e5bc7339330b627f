package services

import (
	"sort"

	"github.com/lorrc/ticket-sync/internal/core/domain"
)

// TicketField selects the grouping key of a distribution.
type TicketField func(t domain.Ticket) string

var (
	ByCategory TicketField = func(t domain.Ticket) string { return t.Category }
	ByPriority TicketField = func(t domain.Ticket) string { return t.Priority }
)

// Distribute groups tickets by the normalized value of field and returns the
// rows sorted by count descending. Ties keep first-encountered order.
func Distribute(tickets []domain.Ticket, field TicketField) domain.DistributionTable {
	index := make(map[string]int)
	rows := make([]domain.DistributionRow, 0)

	for _, t := range tickets {
		label := domain.NormalizeLabel(field(t))
		if i, ok := index[label]; ok {
			rows[i].Count++
			continue
		}
		index[label] = len(rows)
		rows = append(rows, domain.DistributionRow{Label: label, Count: 1})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	maxCount := 1
	for _, row := range rows {
		maxCount = max(maxCount, row.Count)
	}

	return domain.DistributionTable{Rows: rows, Max: maxCount}
}

// PriorityBars is the admin dashboard's fixed High/Medium/Low breakdown.
// Unlike Distribute it keeps zero rows so the three bars are always shown.
func PriorityBars(m domain.DerivedMetrics) []domain.Bar {
	maxCount := max(m.High, m.Medium, m.Low, 1)
	return []domain.Bar{
		{Label: "High", Count: m.High, Width: BarWidth(m.High, maxCount)},
		{Label: "Medium", Count: m.Medium, Width: BarWidth(m.Medium, maxCount)},
		{Label: "Low", Count: m.Low, Width: BarWidth(m.Low, maxCount)},
	}
}
