package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscli/internal/dataset"
)

func transportRecord(zone, slot string, util, delay, passengers float64) dataset.Record {
	return dataset.Record{
		Zone:                 zone,
		TimeSlot:             slot,
		TransportUtilization: util,
		AvgDelayMin:          delay,
		Passengers:           passengers,
	}
}

func TestTransport_KPIs(t *testing.T) {
	table := dataset.Table{
		transportRecord("Library", "Morning", 0.5, 4, 20),
		transportRecord("Library", "Evening", 1.2, 10, 48),
		transportRecord("Sports", "Morning", 0.8, 1, 32),
		transportRecord("Sports", "Evening", 1.5, 5, 60),
	}

	analysis := Transport(table)

	assert.InDelta(t, 1.0, analysis.AvgUtilization, 1e-9)
	assert.InDelta(t, 5.0, analysis.AvgDelayMin, 1e-9)
	assert.Equal(t, 10.0, analysis.MaxDelayMin)
	// 2 of 4 records exceed 100% utilization.
	assert.InDelta(t, 50.0, analysis.OvercrowdedPct, 1e-9)

	require.Len(t, analysis.ByZone, 2)
	library := analysis.ByZone[0]
	assert.Equal(t, "Library", library.Zone)
	assert.InDelta(t, 0.85, library.AvgUtilization, 1e-9)
	assert.InDelta(t, 7.0, library.AvgDelay, 1e-9)
	assert.Equal(t, 68, library.TotalPassengers)

	assert.Len(t, analysis.Scatter, 4)
	assert.Equal(t, "Library", analysis.Scatter[0].Zone)
}

func TestTransport_ExactlyAtCapacityIsNotOvercrowded(t *testing.T) {
	table := dataset.Table{
		transportRecord("Library", "Morning", 1.0, 0, 40),
	}

	analysis := Transport(table)
	assert.Equal(t, 0.0, analysis.OvercrowdedPct)
}

func TestTransport_ScatterCappedWithFixedSample(t *testing.T) {
	table := make(dataset.Table, 1200)
	for i := range table {
		table[i] = transportRecord("Library", "Morning", float64(i)/1200, float64(i%20), 10)
	}

	first := Transport(table)
	second := Transport(table)

	assert.Len(t, first.Scatter, ScatterSampleCap)
	// Fixed seed keeps the downsample stable across calls.
	assert.Equal(t, first.Scatter, second.Scatter)
}

func TestTransport_EmptyTable(t *testing.T) {
	analysis := Transport(dataset.Table{})
	assert.Equal(t, 0.0, analysis.AvgUtilization)
	assert.Empty(t, analysis.Scatter)
	assert.Empty(t, analysis.ByZone)
}
