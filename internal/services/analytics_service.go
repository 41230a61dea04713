package services

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"campuscli/internal/analytics"
	"campuscli/internal/config"
	"campuscli/internal/dataset"
	apierrors "campuscli/internal/errors"
	"campuscli/internal/interventions"
	"campuscli/internal/ml"
)

// AnalyticsService owns the processed dataset and both trained models.
// Each is built at most once per process; the cached value (or the cached
// error) is returned on every subsequent call.
type AnalyticsService struct {
	cfg    *config.Config
	logger *slog.Logger

	tableOnce sync.Once
	table     dataset.Table
	tableErr  error

	demandOnce sync.Once
	demand     *ml.TrainedModel
	demandErr  error

	satisfactionOnce sync.Once
	satisfaction     *ml.TrainedModel
	satisfactionErr  error
}

// KPIs are the dashboard's top-level summary cards.
type KPIs struct {
	TotalRecords            int     `json:"total_records"`
	AvgSatisfaction         float64 `json:"avg_satisfaction"`
	AvgCongestionIndex      float64 `json:"avg_congestion_index"`
	AvgWastePercent         float64 `json:"avg_waste_percent"`
	AvgTransportUtilization float64 `json:"avg_transport_utilization"`
	AvgDelayMin             float64 `json:"avg_delay_min"`
	FoodModelR2             float64 `json:"food_model_r2"`
	SatisfactionModelR2     float64 `json:"satisfaction_model_r2"`
}

// ModelMetrics summarizes a trained model for API responses.
type ModelMetrics struct {
	R2  float64 `json:"r2"`
	MAE float64 `json:"mae"`
}

// FoodAnalysis is the waste analysis enriched with the daily trend and the
// demand model quality metrics.
type FoodAnalysis struct {
	analytics.FoodWasteAnalysis
	WasteTrend  []analytics.WasteTrendPoint `json:"waste_trend"`
	DemandModel ModelMetrics                `json:"demand_model"`
}

// NewAnalyticsService creates the analytics service with injected config
// and logger.
func NewAnalyticsService(cfg *config.Config, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		cfg:    cfg,
		logger: logger.With(slog.String("service", "analytics")),
	}
}

// Table returns the processed dataset, loading and engineering it on first
// use.
func (s *AnalyticsService) Table(ctx context.Context) (dataset.Table, error) {
	s.tableOnce.Do(func() {
		start := time.Now()
		table, err := dataset.Process(
			s.cfg.Data.DatasetPath,
			s.cfg.Data.ZoneCapacity,
			s.cfg.Data.DefaultZoneCapacity,
		)
		if err != nil {
			s.logger.ErrorContext(ctx, "dataset processing failed",
				slog.String("path", s.cfg.Data.DatasetPath),
				slog.String("error", err.Error()))
			s.tableErr = apierrors.DatasetLoadError(err)
			return
		}
		s.table = table
		s.logger.InfoContext(ctx, "dataset processed",
			slog.String("path", s.cfg.Data.DatasetPath),
			slog.Int("rows", len(table)),
			slog.Duration("duration", time.Since(start)))
	})
	return s.table, s.tableErr
}

// DemandModel returns the cached food demand regressor, training it on
// first use.
func (s *AnalyticsService) DemandModel(ctx context.Context) (*ml.TrainedModel, error) {
	s.demandOnce.Do(func() {
		table, err := s.Table(ctx)
		if err != nil {
			s.demandErr = err
			return
		}
		start := time.Now()
		model, err := ml.TrainDemandModel(table, s.cfg.ML.TestSize, s.cfg.ML.Seed)
		if err != nil {
			s.logger.ErrorContext(ctx, "demand model training failed",
				slog.String("error", err.Error()))
			s.demandErr = apierrors.ModelTrainingError(err)
			return
		}
		s.demand = model
		s.logger.InfoContext(ctx, "demand model trained",
			slog.Float64("r2", model.R2),
			slog.Float64("mae", model.MAE),
			slog.Duration("duration", time.Since(start)))
	})
	return s.demand, s.demandErr
}

// SatisfactionModel returns the cached satisfaction regressor, training it
// on first use.
func (s *AnalyticsService) SatisfactionModel(ctx context.Context) (*ml.TrainedModel, error) {
	s.satisfactionOnce.Do(func() {
		table, err := s.Table(ctx)
		if err != nil {
			s.satisfactionErr = err
			return
		}
		start := time.Now()
		model, err := ml.TrainSatisfactionModel(table, s.cfg.ML.TestSize, s.cfg.ML.Seed)
		if err != nil {
			s.logger.ErrorContext(ctx, "satisfaction model training failed",
				slog.String("error", err.Error()))
			s.satisfactionErr = apierrors.ModelTrainingError(err)
			return
		}
		s.satisfaction = model
		s.logger.InfoContext(ctx, "satisfaction model trained",
			slog.Float64("r2", model.R2),
			slog.Float64("mae", model.MAE),
			slog.Duration("duration", time.Since(start)))
	})
	return s.satisfaction, s.satisfactionErr
}

// Warm loads the dataset and trains both models so the first request does
// not pay the startup cost. Errors are returned but leave the service
// usable; each endpoint surfaces its own cached error.
func (s *AnalyticsService) Warm(ctx context.Context) error {
	if _, err := s.Table(ctx); err != nil {
		return err
	}
	if _, err := s.DemandModel(ctx); err != nil {
		return err
	}
	if _, err := s.SatisfactionModel(ctx); err != nil {
		return err
	}
	return nil
}

// KPIs returns the dashboard's summary cards.
func (s *AnalyticsService) KPIs(ctx context.Context) (KPIs, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return KPIs{}, err
	}
	demand, err := s.DemandModel(ctx)
	if err != nil {
		return KPIs{}, err
	}
	satisfaction, err := s.SatisfactionModel(ctx)
	if err != nil {
		return KPIs{}, err
	}

	return KPIs{
		TotalRecords:            len(table),
		AvgSatisfaction:         roundTo(table.Mean(func(r *dataset.Record) float64 { return r.Satisfaction }), 2),
		AvgCongestionIndex:      roundTo(table.Mean(func(r *dataset.Record) float64 { return r.CongestionIndex }), 3),
		AvgWastePercent:         roundTo(table.Mean(func(r *dataset.Record) float64 { return r.WastePercent }), 3),
		AvgTransportUtilization: roundTo(table.Mean(func(r *dataset.Record) float64 { return r.TransportUtilization }), 3),
		AvgDelayMin:             roundTo(table.Mean(func(r *dataset.Record) float64 { return r.AvgDelayMin }), 1),
		FoodModelR2:             demand.R2,
		SatisfactionModelR2:     satisfaction.R2,
	}, nil
}

// CongestionSummary returns the congestion heatmap and bottleneck analysis.
func (s *AnalyticsService) CongestionSummary(ctx context.Context) (analytics.CongestionSummary, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return analytics.CongestionSummary{}, err
	}
	return analytics.Congestion(table), nil
}

// FoodAnalysis returns the waste breakdown, the daily trend, and the demand
// model metrics.
func (s *AnalyticsService) FoodAnalysis(ctx context.Context) (FoodAnalysis, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return FoodAnalysis{}, err
	}
	demand, err := s.DemandModel(ctx)
	if err != nil {
		return FoodAnalysis{}, err
	}

	return FoodAnalysis{
		FoodWasteAnalysis: analytics.FoodWaste(table),
		WasteTrend:        analytics.WasteTrend(table),
		DemandModel:       ModelMetrics{R2: demand.R2, MAE: demand.MAE},
	}, nil
}

// TransportAnalysis returns the utilization and delay breakdown.
func (s *AnalyticsService) TransportAnalysis(ctx context.Context) (analytics.TransportAnalysis, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return analytics.TransportAnalysis{}, err
	}
	return analytics.Transport(table), nil
}

// SatisfactionImpact returns the satisfaction model's importances and
// held-out comparison sample.
func (s *AnalyticsService) SatisfactionImpact(ctx context.Context) (analytics.SatisfactionImpact, error) {
	model, err := s.SatisfactionModel(ctx)
	if err != nil {
		return analytics.SatisfactionImpact{}, err
	}
	return analytics.Satisfaction(model), nil
}

// RunSimulation projects satisfaction under the given congestion and delay
// reductions.
func (s *AnalyticsService) RunSimulation(ctx context.Context, congestionReductionPct, delayReductionPct float64) (analytics.SimulationResult, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return analytics.SimulationResult{}, err
	}
	model, err := s.SatisfactionModel(ctx)
	if err != nil {
		return analytics.SimulationResult{}, err
	}

	s.logger.InfoContext(ctx, "running simulation",
		slog.Float64("congestion_reduction_pct", congestionReductionPct),
		slog.Float64("delay_reduction_pct", delayReductionPct))
	return analytics.Simulate(table, model, congestionReductionPct, delayReductionPct)
}

// StrategicInterventions returns the ranked intervention report.
func (s *AnalyticsService) StrategicInterventions(ctx context.Context) (interventions.Report, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return interventions.Report{}, err
	}
	model, err := s.SatisfactionModel(ctx)
	if err != nil {
		return interventions.Report{}, err
	}
	return interventions.Generate(table, model), nil
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
