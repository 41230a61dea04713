package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testZoneCapacity = map[string]int{
	"Library":   200,
	"Sports":    250,
	"Hostel":    300,
	"FoodCourt": 150,
	"Academic":  250,
}

func TestEngineer_DerivedRatios(t *testing.T) {
	table := Table{
		{Zone: "Library", TimeSlot: "Morning", Footfall: 100, PreparedQty: 200, Orders: 150, Passengers: 30, BusCapacity: 40},
	}

	out := Engineer(table, testZoneCapacity, 200)

	assert.Equal(t, 200, out[0].ZoneCapacity)
	assert.InDelta(t, 0.5, out[0].CongestionIndex, 1e-9)
	assert.InDelta(t, 0.25, out[0].WastePercent, 1e-9)
	assert.InDelta(t, 0.75, out[0].TransportUtilization, 1e-9)
}

func TestEngineer_UnknownZoneUsesDefaultCapacity(t *testing.T) {
	table := Table{{Zone: "Amphitheatre", Footfall: 100}}

	out := Engineer(table, testZoneCapacity, 200)

	assert.Equal(t, 200, out[0].ZoneCapacity)
	assert.InDelta(t, 0.5, out[0].CongestionIndex, 1e-9)
}

func TestEngineer_ZeroDenominatorsFallBackToZero(t *testing.T) {
	table := Table{
		{Zone: "Library", Footfall: 100, PreparedQty: 0, Orders: 0, Passengers: 30, BusCapacity: 0},
	}

	out := Engineer(table, map[string]int{"Library": 0}, 0)

	for _, v := range []float64{out[0].CongestionIndex, out[0].WastePercent, out[0].TransportUtilization} {
		assert.Equal(t, 0.0, v)
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestEngineer_DerivedValuesNeverNegativeForCleanCounts(t *testing.T) {
	table := Table{
		{Zone: "Sports", Footfall: 500, PreparedQty: 100, Orders: 60, Passengers: 80, BusCapacity: 40},
		{Zone: "Hostel", Footfall: 0, PreparedQty: 50, Orders: 50, Passengers: 0, BusCapacity: 40},
	}

	out := Engineer(table, testZoneCapacity, 200)

	for i := range out {
		assert.GreaterOrEqual(t, out[i].CongestionIndex, 0.0)
		assert.GreaterOrEqual(t, out[i].WastePercent, 0.0)
		assert.GreaterOrEqual(t, out[i].TransportUtilization, 0.0)
	}
}

func TestEngineer_LabelEncodingIsStableBijection(t *testing.T) {
	table := Table{
		{Zone: "Sports", TimeSlot: "Evening"},
		{Zone: "Library", TimeSlot: "Morning"},
		{Zone: "Sports", TimeSlot: "Afternoon"},
		{Zone: "Academic", TimeSlot: "Morning"},
	}

	first := Engineer(table, testZoneCapacity, 200)
	second := Engineer(table, testZoneCapacity, 200)

	zoneToCode := make(map[string]int)
	codeToZone := make(map[int]string)
	for i := range first {
		// Same category always maps to the same code.
		assert.Equal(t, first[i].ZoneEncoded, second[i].ZoneEncoded)
		assert.Equal(t, first[i].TimeSlotEncoded, second[i].TimeSlotEncoded)

		if code, ok := zoneToCode[first[i].Zone]; ok {
			assert.Equal(t, code, first[i].ZoneEncoded)
		}
		if zone, ok := codeToZone[first[i].ZoneEncoded]; ok {
			assert.Equal(t, zone, first[i].Zone)
		}
		zoneToCode[first[i].Zone] = first[i].ZoneEncoded
		codeToZone[first[i].ZoneEncoded] = first[i].Zone
	}

	// Codes cover 0..n-1 for the distinct values seen.
	require.Len(t, zoneToCode, 3)
	codes := map[int]bool{}
	for _, c := range zoneToCode {
		codes[c] = true
	}
	for i := 0; i < len(zoneToCode); i++ {
		assert.True(t, codes[i], "expected contiguous code %d", i)
	}
}

func TestEngineer_DoesNotMutateInput(t *testing.T) {
	table := Table{{Zone: "Library", Footfall: 100}}
	_ = Engineer(table, testZoneCapacity, 200)
	assert.Equal(t, 0.0, table[0].CongestionIndex)
	assert.Equal(t, 0, table[0].ZoneCapacity)
}
