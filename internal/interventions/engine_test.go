package interventions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscli/internal/dataset"
	"campuscli/internal/ml"
)

// fixtureTable covers two zones and two time slots with two rows per cell.
// Library is the stressed zone: congested, wasteful, delayed, overcrowded,
// and unhappy. Hostel is the calm counterpart.
func fixtureTable() dataset.Table {
	var t dataset.Table
	add := func(zone, slot, meal string, congestion, waste, delay, util, sat float64) {
		t = append(t, dataset.Record{
			Zone:                 zone,
			TimeSlot:             slot,
			MealType:             meal,
			CongestionIndex:      congestion,
			WastePercent:         waste,
			WasteQty:             waste * 100,
			PreparedQty:          100,
			AvgDelayMin:          delay,
			TransportUtilization: util,
			Passengers:           50,
			Satisfaction:         sat,
			ResponseTimeHr:       1,
		})
	}
	add("Library", "Morning", "Breakfast", 0.9, 0.4, 12, 1.2, 2.0)
	add("Library", "Morning", "Breakfast", 0.9, 0.4, 12, 1.2, 2.0)
	add("Library", "Evening", "Breakfast", 0.8, 0.4, 12, 1.2, 2.0)
	add("Library", "Evening", "Breakfast", 0.8, 0.4, 12, 1.2, 2.0)
	add("Hostel", "Morning", "Lunch", 0.5, 0.1, 4, 0.6, 4.0)
	add("Hostel", "Morning", "Lunch", 0.5, 0.1, 4, 0.6, 4.0)
	add("Hostel", "Evening", "Lunch", 0.4, 0.1, 4, 0.6, 4.0)
	add("Hostel", "Evening", "Lunch", 0.4, 0.1, 4, 0.6, 4.0)
	return t
}

func fixtureModel() *ml.TrainedModel {
	return &ml.TrainedModel{
		FeatureNames: []string{
			ml.FeatureCongestionIndex,
			ml.FeatureAvgDelayMin,
			ml.FeatureWastePercent,
			ml.FeatureResponseTimeHr,
		},
		Importances: []float64{0.5, 0.3, 0.15, 0.05},
		R2:          0.9,
		MAE:         0.2,
	}
}

func TestGenerate_RanksByPriorityThenImpact(t *testing.T) {
	report := Generate(fixtureTable(), fixtureModel())

	ids := make([]string, len(report.Interventions))
	priorities := make([]string, len(report.Interventions))
	for i, item := range report.Interventions {
		ids[i] = item.ID
		priorities[i] = item.Priority
	}

	// Critical tier first, then high, then medium; within a tier larger
	// projected impact first, generation order on ties.
	assert.Equal(t, []string{
		"trans-2", "cong-1",
		"food-1", "food-2", "trans-1", "sat-1", "sat-2",
		"sat-3", "cong-2",
	}, ids)
	assert.Equal(t, []string{
		PriorityCritical, PriorityCritical,
		PriorityHigh, PriorityHigh, PriorityHigh, PriorityHigh, PriorityHigh,
		PriorityMedium, PriorityMedium,
	}, priorities)
}

func TestGenerate_ProjectedImpacts(t *testing.T) {
	report := Generate(fixtureTable(), fixtureModel())

	impacts := make(map[string]float64, len(report.Interventions))
	for _, item := range report.Interventions {
		impacts[item.ID] = item.ProjectedImpact
	}

	assert.Equal(t, 18.5, impacts["cong-1"])
	assert.Equal(t, 6.0, impacts["cong-2"])
	assert.Equal(t, 30.0, impacts["food-1"])
	assert.Equal(t, 24.0, impacts["food-2"])
	assert.Equal(t, 20.0, impacts["trans-1"])
	assert.Equal(t, 35.0, impacts["trans-2"])
	assert.Equal(t, 20.0, impacts["sat-1"])
	assert.Equal(t, 20.0, impacts["sat-2"])
	assert.Equal(t, 28.0, impacts["sat-3"])
}

func TestGenerate_Summary(t *testing.T) {
	report := Generate(fixtureTable(), fixtureModel())

	assert.Equal(t, Summary{
		TotalInterventions:   9,
		Critical:             2,
		High:                 5,
		Medium:               2,
		TotalProjectedImpact: 201.5,
		Domains:              []string{"congestion", "food", "transport", "satisfaction"},
	}, report.Summary)
}

func TestGenerate_Deterministic(t *testing.T) {
	first := Generate(fixtureTable(), fixtureModel())
	second := Generate(fixtureTable(), fixtureModel())
	assert.Equal(t, first, second)
}

func TestGenerate_EmptyTable(t *testing.T) {
	report := Generate(nil, fixtureModel())

	assert.Empty(t, report.Interventions)
	assert.Equal(t, 0, report.Summary.TotalInterventions)
	assert.Equal(t, []string{"congestion", "food", "transport", "satisfaction"}, report.Summary.Domains)
}

func TestPriorityLabel(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"below high", 0.5, PriorityMedium},
		{"at high", 0.7, PriorityHigh},
		{"between", 0.8, PriorityHigh},
		{"at critical", 0.85, PriorityCritical},
		{"above critical", 0.95, PriorityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, priorityLabel(tt.value, 0.7, 0.85))
		})
	}
}

func TestCongestionInterventions_NoBottlenecks(t *testing.T) {
	table := fixtureTable()
	for i := range table {
		table[i].CongestionIndex = 0.5
	}

	items := congestionInterventions(table)

	require.Len(t, items, 1)
	assert.Equal(t, "cong-1", items[0].ID)
	assert.Equal(t, PriorityMedium, items[0].Priority)
}

func TestTransportInterventions_FullLoadIsNotOvercrowded(t *testing.T) {
	table := fixtureTable()
	for i := range table {
		table[i].TransportUtilization = 1.0
	}

	items := transportInterventions(table)

	require.Len(t, items, 1)
	assert.Equal(t, "trans-1", items[0].ID)
}

func TestSatisfactionInterventions_ConstantFeatureCorrelationIsZero(t *testing.T) {
	// ResponseTimeHr is constant across the fixture, so its Pearson
	// correlation with satisfaction is undefined. It must surface as 0,
	// never NaN, or the evidence payload cannot be JSON-encoded.
	items := satisfactionInterventions(fixtureTable(), fixtureModel())

	require.NotEmpty(t, items)
	correlations, ok := items[0].Evidence["correlations"].(map[string]float64)
	require.True(t, ok)
	assert.Equal(t, 0.0, correlations["Response Time"])
	for label, corr := range correlations {
		assert.False(t, math.IsNaN(corr), "correlation for %s", label)
	}
}

func TestSatisfactionInterventions_TopDriverLabels(t *testing.T) {
	items := satisfactionInterventions(fixtureTable(), fixtureModel())

	require.Len(t, items, 3)
	assert.Equal(t, "sat-1", items[0].ID)
	assert.Contains(t, items[0].Title, "Congestion Index")
	assert.Equal(t, 50.0, items[0].Metric)
	assert.Equal(t, "Congestion Index", items[0].Evidence["top_driver_label"])

	assert.Equal(t, "sat-2", items[1].ID)
	assert.Equal(t, "Library", items[1].Evidence["lowest_zone"])

	assert.Equal(t, "sat-3", items[2].ID)
	assert.Contains(t, items[2].Title, "Transport Delay")
	assert.Equal(t, 80.0, items[2].Metric)
}

func TestSatisfactionInterventions_NilModel(t *testing.T) {
	assert.Nil(t, satisfactionInterventions(fixtureTable(), nil))
}
