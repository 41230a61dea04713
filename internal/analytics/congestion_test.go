package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscli/internal/dataset"
)

func congestionRecord(zone, slot string, index float64) dataset.Record {
	return dataset.Record{Zone: zone, TimeSlot: slot, CongestionIndex: index}
}

func TestCongestionHeatmap_GroupsAndAverages(t *testing.T) {
	table := dataset.Table{
		congestionRecord("Library", "Morning", 0.8),
		congestionRecord("Library", "Morning", 0.6),
		congestionRecord("Library", "Evening", 0.4),
		congestionRecord("Sports", "Morning", 0.2),
	}

	heatmap := CongestionHeatmap(table)
	require.Len(t, heatmap, 3)

	// Ordered by zone, then time slot.
	assert.Equal(t, HeatmapCell{Zone: "Library", TimeSlot: "Evening", CongestionIndex: 0.4}, heatmap[0])
	assert.Equal(t, HeatmapCell{Zone: "Library", TimeSlot: "Morning", CongestionIndex: 0.7}, heatmap[1])
	assert.Equal(t, HeatmapCell{Zone: "Sports", TimeSlot: "Morning", CongestionIndex: 0.2}, heatmap[2])
}

func TestBottlenecks_Threshold(t *testing.T) {
	table := dataset.Table{
		congestionRecord("Library", "Morning", 0.9),
		congestionRecord("Sports", "Morning", 0.85),
		congestionRecord("Hostel", "Morning", 0.84),
	}

	hot := Bottlenecks(table, 0.85)
	require.Len(t, hot, 2)
	for _, cell := range hot {
		assert.GreaterOrEqual(t, cell.CongestionIndex, 0.85)
	}
}

func TestCongestion_BottleneckCount(t *testing.T) {
	// Exactly 2 of 5 groups at or above the 0.85 threshold.
	table := dataset.Table{
		congestionRecord("Academic", "Morning", 0.95),
		congestionRecord("FoodCourt", "Morning", 0.85),
		congestionRecord("Hostel", "Morning", 0.80),
		congestionRecord("Library", "Morning", 0.30),
		congestionRecord("Sports", "Morning", 0.10),
	}

	summary := Congestion(table)

	assert.Equal(t, 2, summary.BottleneckCount)
	assert.Equal(t, "Academic", summary.MostCongestedZone)
	assert.Equal(t, "Morning", summary.MostCongestedTimeSlot)
	assert.InDelta(t, 0.6, summary.OverallAvgCongestion, 1e-9)
	assert.Len(t, summary.Heatmap, 5)
}

func TestCongestion_TieBreaksToFirstHeatmapCell(t *testing.T) {
	table := dataset.Table{
		congestionRecord("Sports", "Morning", 0.9),
		congestionRecord("Library", "Evening", 0.9),
	}

	summary := Congestion(table)

	// Both cells tie at 0.9; Library/Evening comes first in heatmap order.
	assert.Equal(t, "Library", summary.MostCongestedZone)
	assert.Equal(t, "Evening", summary.MostCongestedTimeSlot)
}

func TestCongestion_EndToEndScenario(t *testing.T) {
	// One zone at footfall 190 / capacity 200 (index 0.95), the rest ~0.3.
	table := dataset.Table{
		congestionRecord("Library", "Morning", 0.95),
		congestionRecord("Academic", "Morning", 0.3),
		congestionRecord("Academic", "Evening", 0.3),
		congestionRecord("Sports", "Morning", 0.3),
		congestionRecord("Sports", "Evening", 0.3),
		congestionRecord("Hostel", "Morning", 0.3),
		congestionRecord("Hostel", "Evening", 0.3),
		congestionRecord("FoodCourt", "Morning", 0.3),
		congestionRecord("FoodCourt", "Evening", 0.3),
		congestionRecord("FoodCourt", "Afternoon", 0.3),
	}

	summary := Congestion(table)

	assert.Equal(t, "Library", summary.MostCongestedZone)
	assert.Equal(t, 1, summary.BottleneckCount)
}

func TestCongestion_EmptyTable(t *testing.T) {
	summary := Congestion(dataset.Table{})

	assert.Equal(t, 0, summary.BottleneckCount)
	assert.Empty(t, summary.Heatmap)
	assert.Empty(t, summary.MostCongestedZone)
}
