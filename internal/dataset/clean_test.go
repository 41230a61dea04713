package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean_SecurityIncidentSentinelBecomesZero(t *testing.T) {
	table := Table{
		{SecurityIncidents: 3},
		{SecurityIncidents: math.NaN()}, // repeated header label in source
		{SecurityIncidents: 1},
	}

	cleaned := Clean(table)

	assert.Equal(t, 3.0, cleaned[0].SecurityIncidents)
	assert.Equal(t, 0.0, cleaned[1].SecurityIncidents)
	assert.Equal(t, 1.0, cleaned[2].SecurityIncidents)
}

func TestClean_SecurityIncidentsTruncatedToWholeCounts(t *testing.T) {
	table := Table{
		{SecurityIncidents: 2.7},
		{SecurityIncidents: 0.4},
		{SecurityIncidents: math.NaN()},
	}

	cleaned := Clean(table)

	assert.Equal(t, 2.0, cleaned[0].SecurityIncidents)
	assert.Equal(t, 0.0, cleaned[1].SecurityIncidents)
	assert.Equal(t, 0.0, cleaned[2].SecurityIncidents)
}

func TestClean_MissingValuesFilledWithMedian(t *testing.T) {
	table := Table{
		{Footfall: 100},
		{Footfall: 200},
		{Footfall: math.NaN()},
		{Footfall: 400},
	}

	cleaned := Clean(table)

	// Median of {100, 200, 400} is 200.
	assert.Equal(t, 200.0, cleaned[2].Footfall)
	assert.Equal(t, 100.0, cleaned[0].Footfall)
}

func TestClean_MedianInterpolatesEvenCount(t *testing.T) {
	table := Table{
		{Satisfaction: 2},
		{Satisfaction: 4},
		{Satisfaction: 1},
		{Satisfaction: 3},
		{Satisfaction: math.NaN()},
	}

	cleaned := Clean(table)

	assert.InDelta(t, 2.5, cleaned[4].Satisfaction, 1e-9)
}

func TestClean_NegativeDelaysClamped(t *testing.T) {
	table := Table{
		{AvgDelayMin: -5},
		{AvgDelayMin: 0},
		{AvgDelayMin: 12.5},
	}

	cleaned := Clean(table)

	assert.Equal(t, 0.0, cleaned[0].AvgDelayMin)
	assert.Equal(t, 0.0, cleaned[1].AvgDelayMin)
	assert.Equal(t, 12.5, cleaned[2].AvgDelayMin)
}

func TestClean_Idempotent(t *testing.T) {
	table := Table{
		{Footfall: 150, AvgDelayMin: -2, SecurityIncidents: math.NaN(), Satisfaction: 4.2},
		{Footfall: math.NaN(), AvgDelayMin: 7, SecurityIncidents: 2, Satisfaction: 3.1},
		{Footfall: 90, AvgDelayMin: 3, SecurityIncidents: 0, Satisfaction: math.NaN()},
	}

	once := Clean(table)
	twice := Clean(once)

	assert.Equal(t, once, twice)
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	table := Table{{AvgDelayMin: -5}}
	_ = Clean(table)
	assert.Equal(t, -5.0, table[0].AvgDelayMin)
}

func TestClean_NoNaNSurvivesInImputedColumns(t *testing.T) {
	table := Table{
		{Footfall: 10, PreparedQty: math.NaN(), Orders: 5, WasteQty: math.NaN(), Passengers: 30, BusCapacity: 40, AvgDelayMin: math.NaN(), SecurityIncidents: math.NaN(), Satisfaction: 4, ResponseTimeHr: 1},
		{Footfall: 20, PreparedQty: 100, Orders: math.NaN(), WasteQty: 10, Passengers: math.NaN(), BusCapacity: 40, AvgDelayMin: 5, SecurityIncidents: 1, Satisfaction: math.NaN(), ResponseTimeHr: math.NaN()},
		{Footfall: 30, PreparedQty: 120, Orders: 90, WasteQty: 30, Passengers: 35, BusCapacity: math.NaN(), AvgDelayMin: 2, SecurityIncidents: 0, Satisfaction: 3, ResponseTimeHr: 2},
	}

	cleaned := Clean(table)

	for i := range cleaned {
		r := &cleaned[i]
		for _, col := range imputedColumns() {
			require.False(t, math.IsNaN(col.get(r)), "row %d column %s", i, col.name)
		}
		require.False(t, math.IsNaN(r.SecurityIncidents), "row %d security incidents", i)
	}
}
