package services_test

import (
	"math"
	"testing"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusSegments(t *testing.T) {
	segments := services.StatusSegments(domain.DerivedMetrics{Total: 4, Open: 1, Resolved: 2})

	require.Len(t, segments, 3)
	assert.Equal(t, domain.ChartSegment{Label: "Resolved", Count: 2, Percentage: 50, Color: services.ColorResolved}, segments[0])
	assert.Equal(t, domain.ChartSegment{Label: "Pending/Open", Count: 1, Percentage: 25, Color: services.ColorOpen}, segments[1])
	assert.Equal(t, domain.ChartSegment{Label: "In Progress", Count: 1, Percentage: 25, Color: services.ColorInProgress}, segments[2])
}

func TestStatusSegments_EmptyCollection(t *testing.T) {
	for _, s := range services.StatusSegments(domain.DerivedMetrics{}) {
		assert.Zero(t, s.Count)
		assert.Zero(t, s.Percentage)
		assert.False(t, math.IsNaN(s.Percentage))
	}
}

func TestStatusSegments_PercentagesBounded(t *testing.T) {
	for total := 0; total < 12; total++ {
		for open := 0; open <= total; open++ {
			for resolved := 0; open+resolved <= total; resolved++ {
				segments := services.StatusSegments(domain.DerivedMetrics{Total: total, Open: open, Resolved: resolved})
				sum := 0.0
				for _, s := range segments {
					assert.False(t, math.IsNaN(s.Percentage) || math.IsInf(s.Percentage, 0))
					assert.GreaterOrEqual(t, s.Percentage, 0.0)
					assert.LessOrEqual(t, s.Percentage, 100.0)
					sum += s.Percentage
				}
				assert.LessOrEqual(t, sum, 100.0+1e-9)
			}
		}
	}
}

func TestBuildPie_EmptyIsNeutralCircle(t *testing.T) {
	pie := services.BuildPie(services.StatusSegments(domain.DerivedMetrics{}))

	assert.True(t, pie.Empty)
	assert.Equal(t, []domain.ConicStop{{Color: services.ColorNeutral, From: 0, To: 100}}, pie.Stops)
	assert.Equal(t, "conic-gradient(#e2e8f0 0% 100%)", pie.CSS())
}

func TestBuildPie_CumulativeStops(t *testing.T) {
	pie := services.BuildPie(services.StatusSegments(domain.DerivedMetrics{Total: 4, Open: 1, Resolved: 2}))

	assert.False(t, pie.Empty)
	assert.Equal(t, []domain.ConicStop{
		{Color: services.ColorResolved, From: 0, To: 50},
		{Color: services.ColorOpen, From: 50, To: 75},
		{Color: services.ColorInProgress, From: 75, To: 100},
	}, pie.Stops)
	assert.Equal(t, "conic-gradient(#16a34a 0% 50%, #2563eb 50% 75%, #f59e0b 75% 100%)", pie.CSS())
}

func TestBuildPie_ZeroWidthSegmentsKeepOrder(t *testing.T) {
	pie := services.BuildPie(services.StatusSegments(domain.DerivedMetrics{Total: 3, Resolved: 3}))

	require.Len(t, pie.Stops, 3)
	assert.Equal(t, domain.ConicStop{Color: services.ColorResolved, From: 0, To: 100}, pie.Stops[0])
	assert.Equal(t, domain.ConicStop{Color: services.ColorOpen, From: 100, To: 100}, pie.Stops[1])
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		name  string
		count int
		max   int
		want  float64
	}{
		{"max row", 7, 7, 100},
		{"half", 2, 4, 50},
		{"zero", 0, 5, 0},
		{"zero max floors at one", 0, 0, 0},
		{"count above max is clamped", 9, 3, 100},
		{"negative count", -1, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.BarWidth(tt.count, tt.max))
		})
	}
}

func TestBuildBars_MaxRowIsFullWidth(t *testing.T) {
	tickets := []domain.Ticket{{Category: "a"}, {Category: "a"}, {Category: "a"}, {Category: "b"}}
	bars := services.BuildBars(services.Distribute(tickets, services.ByCategory))

	require.Len(t, bars, 2)
	assert.Equal(t, 100.0, bars[0].Width)
	assert.InDelta(t, 33.333, bars[1].Width, 0.001)
}
