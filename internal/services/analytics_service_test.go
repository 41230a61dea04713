package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"campuscli/internal/config"
	apierrors "campuscli/internal/errors"
)

var workbookHeader = []interface{}{
	"Date", "Zone", "Time_Slot", "Meal_Type", "Footfall",
	"Prepared_Qty", "Orders", "Waste_Qty", "Passengers", "Bus_Capacity",
	"Avg_Delay_Min", "Security_Incidents", "Satisfaction", "Response_Time_hr",
}

// writeTestWorkbook generates a varied 40-row dataset large enough to train
// both models.
func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	zones := []string{"Library", "Hostel", "Sports"}
	slots := []string{"Morning", "Afternoon", "Evening"}
	meals := []string{"Breakfast", "Lunch", "Dinner"}

	rows := [][]interface{}{workbookHeader}
	for i := 0; i < 40; i++ {
		footfall := 100 + 10*float64(i%8)
		rows = append(rows, []interface{}{
			fmt.Sprintf("2025-01-%02d", i%28+1),
			zones[i%3],
			slots[(i/3)%3],
			meals[i%3],
			footfall,
			200.0,
			0.7*footfall + 10,
			20 + float64(i%5),
			30 + float64(i%10),
			40.0,
			float64(i % 12),
			float64(i % 2),
			3.0 + 0.1*float64(i%10),
			1.0 + 0.5*float64(i%3),
		})
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func testConfig(datasetPath string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{
			DatasetPath:         datasetPath,
			ZoneCapacity:        map[string]int{"Library": 200, "Hostel": 300, "Sports": 250},
			DefaultZoneCapacity: 200,
		},
		ML: config.MLConfig{TestSize: 0.2, Seed: 42},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalyticsService_TableLoadsOnce(t *testing.T) {
	svc := NewAnalyticsService(testConfig(writeTestWorkbook(t)), quietLogger())
	ctx := context.Background()

	first, err := svc.Table(ctx)
	require.NoError(t, err)
	require.Len(t, first, 40)

	second, err := svc.Table(ctx)
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0])
}

func TestAnalyticsService_ModelIdentityAcrossCalls(t *testing.T) {
	svc := NewAnalyticsService(testConfig(writeTestWorkbook(t)), quietLogger())
	ctx := context.Background()

	demand1, err := svc.DemandModel(ctx)
	require.NoError(t, err)
	demand2, err := svc.DemandModel(ctx)
	require.NoError(t, err)
	assert.Same(t, demand1, demand2)

	sat1, err := svc.SatisfactionModel(ctx)
	require.NoError(t, err)
	sat2, err := svc.SatisfactionModel(ctx)
	require.NoError(t, err)
	assert.Same(t, sat1, sat2)
}

func TestAnalyticsService_ConcurrentInit(t *testing.T) {
	svc := NewAnalyticsService(testConfig(writeTestWorkbook(t)), quietLogger())
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			if _, err := svc.Table(ctx); err != nil {
				return err
			}
			if _, err := svc.SatisfactionModel(ctx); err != nil {
				return err
			}
			_, err := svc.DemandModel(ctx)
			return err
		})
	}
	require.NoError(t, g.Wait())

	model1, err := svc.SatisfactionModel(ctx)
	require.NoError(t, err)
	model2, err := svc.SatisfactionModel(ctx)
	require.NoError(t, err)
	assert.Same(t, model1, model2)
}

func TestAnalyticsService_MissingDatasetErrorSticks(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "absent.xlsx"))
	svc := NewAnalyticsService(cfg, quietLogger())
	ctx := context.Background()

	_, err1 := svc.Table(ctx)
	require.Error(t, err1)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err1, &apiErr)
	assert.Equal(t, "DATASET_LOAD_FAILED", apiErr.ErrorCode)

	_, err2 := svc.KPIs(ctx)
	assert.Equal(t, err1, err2)
}

func TestAnalyticsService_KPIs(t *testing.T) {
	svc := NewAnalyticsService(testConfig(writeTestWorkbook(t)), quietLogger())

	kpis, err := svc.KPIs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, kpis.TotalRecords)
	assert.Greater(t, kpis.AvgSatisfaction, 3.0)
	assert.Greater(t, kpis.AvgCongestionIndex, 0.0)
	assert.Greater(t, kpis.AvgTransportUtilization, 0.0)
	// Orders are exactly linear in footfall, so the demand fit is near
	// perfect.
	assert.Greater(t, kpis.FoodModelR2, 0.95)
}

func TestAnalyticsService_FoodAnalysisIncludesModelMetrics(t *testing.T) {
	svc := NewAnalyticsService(testConfig(writeTestWorkbook(t)), quietLogger())

	analysis, err := svc.FoodAnalysis(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, analysis.ByMealType)
	assert.NotEmpty(t, analysis.WasteTrend)
	assert.Greater(t, analysis.DemandModel.R2, 0.95)
}

func TestAnalyticsService_StrategicInterventions(t *testing.T) {
	svc := NewAnalyticsService(testConfig(writeTestWorkbook(t)), quietLogger())

	report, err := svc.StrategicInterventions(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.Interventions)
	assert.Equal(t, len(report.Interventions), report.Summary.TotalInterventions)
}

func TestAnalyticsService_RunSimulationNoop(t *testing.T) {
	svc := NewAnalyticsService(testConfig(writeTestWorkbook(t)), quietLogger())

	result, err := svc.RunSimulation(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, result.BaselineSatisfaction, result.ProjectedSatisfaction)
	assert.Equal(t, 0.0, result.ImprovementPct)
}

func TestAnalyticsService_Warm(t *testing.T) {
	svc := NewAnalyticsService(testConfig(writeTestWorkbook(t)), quietLogger())
	require.NoError(t, svc.Warm(context.Background()))

	kpis, err := svc.KPIs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, kpis.TotalRecords)
}
