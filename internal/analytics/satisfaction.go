package analytics

import (
	"sort"

	"campuscli/internal/ml"
)

// ComparisonSampleSize bounds the predicted-vs-actual sample returned for
// the satisfaction chart.
const ComparisonSampleSize = 100

// FeatureImportance is one feature's contribution to the satisfaction model
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ComparisonPoint pairs an observed satisfaction score with the model's
// prediction for the same held-out row.
type ComparisonPoint struct {
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// SatisfactionImpact is the dashboard's satisfaction driver overview
type SatisfactionImpact struct {
	R2Score           float64             `json:"r2_score"`
	MAE               float64             `json:"mae"`
	FeatureImportance []FeatureImportance `json:"feature_importance"`
	ComparisonSample  []ComparisonPoint   `json:"comparison_sample"`
}

// Satisfaction ranks the trained model's feature importances and samples
// predicted-vs-actual pairs from its held-out test split.
func Satisfaction(model *ml.TrainedModel) SatisfactionImpact {
	impact := SatisfactionImpact{
		R2Score: model.R2,
		MAE:     model.MAE,
	}

	for i, name := range model.FeatureNames {
		var importance float64
		if i < len(model.Importances) {
			importance = model.Importances[i]
		}
		impact.FeatureImportance = append(impact.FeatureImportance, FeatureImportance{
			Feature:    name,
			Importance: roundN(importance, 4),
		})
	}
	sort.SliceStable(impact.FeatureImportance, func(a, b int) bool {
		return impact.FeatureImportance[a].Importance > impact.FeatureImportance[b].Importance
	})

	predicted := model.PredictBatch(model.XTest)
	limit := len(predicted)
	if limit > ComparisonSampleSize {
		limit = ComparisonSampleSize
	}
	for i := 0; i < limit; i++ {
		impact.ComparisonSample = append(impact.ComparisonSample, ComparisonPoint{
			Actual:    round2(model.YTest[i]),
			Predicted: round2(predicted[i]),
		})
	}

	return impact
}
