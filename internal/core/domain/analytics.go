package domain

import (
	"fmt"
	"strings"
)

// DerivedMetrics are the scalar dashboard counts for one snapshot.
// Open + Resolved never exceeds Total; the remainder is in progress.
type DerivedMetrics struct {
	Total    int `json:"total"`
	Open     int `json:"open"`
	Resolved int `json:"resolved"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Last24h  int `json:"last24h"`
}

// InProgress is the residual count, floored at zero.
func (m DerivedMetrics) InProgress() int {
	return max(m.Total-m.Open-m.Resolved, 0)
}

type StatusCount struct {
	Status CanonicalStatus `json:"status"`
	Count  int             `json:"count"`
}

// DistributionRow is one grouped label and how many tickets carry it.
type DistributionRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DistributionTable is a count-descending list of rows plus the largest
// count, floored at 1 so it can always be used as a divisor.
type DistributionTable struct {
	Rows []DistributionRow `json:"rows"`
	Max  int               `json:"max"`
}

// Total sums the row counts.
func (t DistributionTable) Total() int {
	total := 0
	for _, row := range t.Rows {
		total += row.Count
	}
	return total
}

// ChartSegment is one slice of a proportional chart.
type ChartSegment struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// ConicStop is a colored arc between two cumulative percentages.
type ConicStop struct {
	Color string  `json:"color"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// PieGeometry describes a pie chart as cumulative conic stops.
type PieGeometry struct {
	Stops []ConicStop `json:"stops"`
	Empty bool        `json:"empty"`
}

// CSS renders the geometry as a conic-gradient background value.
func (p PieGeometry) CSS() string {
	parts := make([]string, 0, len(p.Stops))
	for _, stop := range p.Stops {
		parts = append(parts, fmt.Sprintf("%s %s%% %s%%", stop.Color, formatPercent(stop.From), formatPercent(stop.To)))
	}
	return "conic-gradient(" + strings.Join(parts, ", ") + ")"
}

// Bar is a distribution row scaled against its table's maximum.
type Bar struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Width float64 `json:"width"`
}

func formatPercent(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
