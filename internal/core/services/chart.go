package services

import (
	"math"

	"github.com/lorrc/ticket-sync/internal/core/domain"
)

// Pie colours.
const (
	ColorResolved   = "#16a34a"
	ColorOpen       = "#2563eb"
	ColorInProgress = "#f59e0b"
	ColorNeutral    = "#e2e8f0"
)

// StatusSegments builds the status pie segments. The in-progress slice is
// the residual total-open-resolved, not a per-ticket count.
func StatusSegments(m domain.DerivedMetrics) []domain.ChartSegment {
	denom := m.Total
	if denom == 0 {
		denom = 1
	}
	inProgress := m.InProgress()

	return []domain.ChartSegment{
		{Label: "Resolved", Count: m.Resolved, Percentage: percentOf(m.Resolved, denom), Color: ColorResolved},
		{Label: "Pending/Open", Count: m.Open, Percentage: percentOf(m.Open, denom), Color: ColorOpen},
		{Label: "In Progress", Count: inProgress, Percentage: percentOf(inProgress, denom), Color: ColorInProgress},
	}
}

// BuildPie lays segments out as cumulative conic stops in input order.
// When nothing has a share the pie is one neutral full circle.
func BuildPie(segments []domain.ChartSegment) domain.PieGeometry {
	total := 0.0
	for _, s := range segments {
		total += s.Percentage
	}
	if total <= 0 {
		return domain.PieGeometry{
			Stops: []domain.ConicStop{{Color: ColorNeutral, From: 0, To: 100}},
			Empty: true,
		}
	}

	stops := make([]domain.ConicStop, 0, len(segments))
	cursor := 0.0
	for _, s := range segments {
		from := cursor
		cursor = math.Min(cursor+s.Percentage, 100)
		stops = append(stops, domain.ConicStop{Color: s.Color, From: from, To: cursor})
	}
	return domain.PieGeometry{Stops: stops}
}

// BarWidth scales count against maxCount as a percentage in [0, 100].
func BarWidth(count, maxCount int) float64 {
	if maxCount < 1 {
		maxCount = 1
	}
	return clampPercent(float64(count) / float64(maxCount) * 100)
}

// BuildBars converts a distribution table into bar geometry.
func BuildBars(table domain.DistributionTable) []domain.Bar {
	bars := make([]domain.Bar, 0, len(table.Rows))
	for _, row := range table.Rows {
		bars = append(bars, domain.Bar{Label: row.Label, Count: row.Count, Width: BarWidth(row.Count, table.Max)})
	}
	return bars
}

func percentOf(count, denom int) float64 {
	return clampPercent(float64(count) / float64(denom) * 100)
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 100)
}
