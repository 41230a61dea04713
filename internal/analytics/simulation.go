package analytics

import (
	"campuscli/internal/dataset"
	"campuscli/internal/ml"
)

// SimulationResult reports the projected satisfaction change for a what-if
// scenario.
type SimulationResult struct {
	CongestionReductionPct float64 `json:"congestion_reduction_pct"`
	DelayReductionPct      float64 `json:"delay_reduction_pct"`
	BaselineSatisfaction   float64 `json:"baseline_satisfaction"`
	ProjectedSatisfaction  float64 `json:"projected_satisfaction"`
	ImprovementPct         float64 `json:"improvement_pct"`
}

// Simulate scales the congestion index and delay features multiplicatively
// across the entire table, re-runs the satisfaction model, and compares the
// average prediction against the unscaled baseline. Reductions are clamped
// to [0, 100]; the HTTP layer rejects out-of-range input before it gets
// here. A zero baseline reports 0% improvement.
func Simulate(t dataset.Table, model *ml.TrainedModel, congestionReductionPct, delayReductionPct float64) (SimulationResult, error) {
	congestionReductionPct = clampPct(congestionReductionPct)
	delayReductionPct = clampPct(delayReductionPct)

	x, err := ml.FeatureMatrix(t, model.FeatureNames)
	if err != nil {
		return SimulationResult{}, err
	}

	baseline := meanPrediction(model, x)

	congestionScale := 1 - congestionReductionPct/100
	delayScale := 1 - delayReductionPct/100
	for _, row := range x {
		for j, name := range model.FeatureNames {
			switch name {
			case ml.FeatureCongestionIndex:
				row[j] *= congestionScale
			case ml.FeatureAvgDelayMin:
				row[j] *= delayScale
			}
		}
	}

	projected := meanPrediction(model, x)

	result := SimulationResult{
		CongestionReductionPct: congestionReductionPct,
		DelayReductionPct:      delayReductionPct,
		BaselineSatisfaction:   round3(baseline),
		ProjectedSatisfaction:  round3(projected),
	}
	if result.BaselineSatisfaction != 0 {
		result.ImprovementPct = round2((result.ProjectedSatisfaction - result.BaselineSatisfaction) / result.BaselineSatisfaction * 100)
	}
	return result, nil
}

func meanPrediction(model *ml.TrainedModel, x [][]float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, p := range model.PredictBatch(x) {
		sum += p
	}
	return sum / float64(len(x))
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
