package domain_test

import (
	"testing"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDerivedMetrics_InProgress(t *testing.T) {
	assert.Equal(t, 2, domain.DerivedMetrics{Total: 5, Open: 2, Resolved: 1}.InProgress())
	assert.Equal(t, 0, domain.DerivedMetrics{Total: 1, Open: 1, Resolved: 1}.InProgress())
	assert.Equal(t, 0, domain.DerivedMetrics{}.InProgress())
}

func TestPieGeometry_CSS(t *testing.T) {
	pie := domain.PieGeometry{Stops: []domain.ConicStop{
		{Color: "#16a34a", From: 0, To: 50},
		{Color: "#2563eb", From: 50, To: 83.33333333},
		{Color: "#f59e0b", From: 83.33333333, To: 100},
	}}
	assert.Equal(t, "conic-gradient(#16a34a 0% 50%, #2563eb 50% 83.3333%, #f59e0b 83.3333% 100%)", pie.CSS())

	empty := domain.PieGeometry{Stops: []domain.ConicStop{{Color: "#e2e8f0", From: 0, To: 100}}, Empty: true}
	assert.Equal(t, "conic-gradient(#e2e8f0 0% 100%)", empty.CSS())
}

func TestDistributionTable_Total(t *testing.T) {
	table := domain.DistributionTable{Rows: []domain.DistributionRow{{Label: "A", Count: 2}, {Label: "B", Count: 3}}, Max: 3}
	assert.Equal(t, 5, table.Total())
}
