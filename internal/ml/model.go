package ml

import (
	"fmt"

	"campuscli/internal/dataset"
)

// Feature names used by the trained models and the analytics services.
const (
	FeatureFootfall        = "footfall"
	FeatureZoneEncoded     = "zone_encoded"
	FeatureTimeSlotEncoded = "time_slot_encoded"
	FeatureCongestionIndex = "congestion_index"
	FeatureAvgDelayMin     = "avg_delay_min"
	FeatureWastePercent    = "waste_percent"
	FeatureResponseTimeHr  = "response_time_hr"
)

// Satisfaction model configuration: ensemble size and depth
const (
	forestTrees = 150
	forestDepth = 12
)

// featureAccessors maps feature names to record fields
var featureAccessors = map[string]func(*dataset.Record) float64{
	FeatureFootfall:        func(r *dataset.Record) float64 { return r.Footfall },
	FeatureZoneEncoded:     func(r *dataset.Record) float64 { return float64(r.ZoneEncoded) },
	FeatureTimeSlotEncoded: func(r *dataset.Record) float64 { return float64(r.TimeSlotEncoded) },
	FeatureCongestionIndex: func(r *dataset.Record) float64 { return r.CongestionIndex },
	FeatureAvgDelayMin:     func(r *dataset.Record) float64 { return r.AvgDelayMin },
	FeatureWastePercent:    func(r *dataset.Record) float64 { return r.WastePercent },
	FeatureResponseTimeHr:  func(r *dataset.Record) float64 { return r.ResponseTimeHr },
}

// Regressor is the common prediction interface of the trained models
type Regressor interface {
	Predict(row []float64) float64
}

// TrainedModel bundles a fitted regressor with its feature list, held-out
// test split, and accuracy metrics. Bundles are immutable once trained.
type TrainedModel struct {
	Model        Regressor
	FeatureNames []string
	XTest        [][]float64
	YTest        []float64
	R2           float64
	MAE          float64

	// Importances is populated for ensemble models only; nil otherwise.
	Importances []float64
}

// FeatureMatrix extracts the named feature columns from the processed table
func FeatureMatrix(t dataset.Table, names []string) ([][]float64, error) {
	for _, name := range names {
		if _, ok := featureAccessors[name]; !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
	}

	x := make([][]float64, len(t))
	for i := range t {
		row := make([]float64, len(names))
		for j, name := range names {
			row[j] = featureAccessors[name](&t[i])
		}
		x[i] = row
	}
	return x, nil
}

// PredictBatch runs the model over every row of the feature matrix
func (m *TrainedModel) PredictBatch(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = m.Model.Predict(row)
	}
	return out
}

// TrainDemandModel fits a linear regressor predicting order volume from
// footfall and the zone and time-slot codes.
func TrainDemandModel(t dataset.Table, testFrac float64, seed int64) (*TrainedModel, error) {
	features := []string{FeatureFootfall, FeatureZoneEncoded, FeatureTimeSlotEncoded}

	xTrain, yTrain, xTest, yTest, err := splitFeatures(t, features, func(r *dataset.Record) float64 { return r.Orders }, testFrac, seed)
	if err != nil {
		return nil, fmt.Errorf("demand model: %w", err)
	}

	model, err := FitLinear(xTrain, yTrain)
	if err != nil {
		return nil, fmt.Errorf("demand model: %w", err)
	}

	return evaluate(model, features, xTest, yTest, nil), nil
}

// TrainSatisfactionModel fits the tree ensemble predicting satisfaction from
// the operational metrics.
func TrainSatisfactionModel(t dataset.Table, testFrac float64, seed int64) (*TrainedModel, error) {
	features := []string{FeatureCongestionIndex, FeatureAvgDelayMin, FeatureWastePercent, FeatureResponseTimeHr}

	xTrain, yTrain, xTest, yTest, err := splitFeatures(t, features, func(r *dataset.Record) float64 { return r.Satisfaction }, testFrac, seed)
	if err != nil {
		return nil, fmt.Errorf("satisfaction model: %w", err)
	}

	forest := NewForestRegressor(forestTrees, forestDepth, seed)
	if err := forest.Fit(xTrain, yTrain); err != nil {
		return nil, fmt.Errorf("satisfaction model: %w", err)
	}

	return evaluate(forest, features, xTest, yTest, forest.FeatureImportances()), nil
}

// splitFeatures extracts the feature matrix and target vector and partitions
// both into train and test sets.
func splitFeatures(t dataset.Table, features []string, target func(*dataset.Record) float64, testFrac float64, seed int64) (xTrain [][]float64, yTrain []float64, xTest [][]float64, yTest []float64, err error) {
	x, err := FeatureMatrix(t, features)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	y := make([]float64, len(t))
	for i := range t {
		y[i] = target(&t[i])
	}

	trainIdx, testIdx, err := TrainTestSplit(len(t), testFrac, seed)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	pick := func(idx []int) ([][]float64, []float64) {
		px := make([][]float64, len(idx))
		py := make([]float64, len(idx))
		for i, j := range idx {
			px[i] = x[j]
			py[i] = y[j]
		}
		return px, py
	}

	xTrain, yTrain = pick(trainIdx)
	xTest, yTest = pick(testIdx)
	return xTrain, yTrain, xTest, yTest, nil
}

// evaluate builds the final bundle with held-out metrics rounded the way the
// dashboard reports them.
func evaluate(model Regressor, features []string, xTest [][]float64, yTest []float64, importances []float64) *TrainedModel {
	m := &TrainedModel{
		Model:        model,
		FeatureNames: features,
		XTest:        xTest,
		YTest:        yTest,
		Importances:  importances,
	}

	predicted := m.PredictBatch(xTest)
	m.R2 = roundTo(RSquared(yTest, predicted), 4)
	m.MAE = roundTo(MeanAbsoluteError(yTest, predicted), 4)
	return m
}
