package ml

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is an ordinary least squares regressor with an intercept term.
type LinearModel struct {
	Intercept float64
	Coef      []float64
}

// FitLinear fits a least squares model to the given feature matrix and
// targets. Every row of x must have the same number of features.
func FitLinear(x [][]float64, y []float64) (*LinearModel, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("mismatched training data: %d feature rows, %d targets", len(x), len(y))
	}

	features := len(x[0])
	if len(x) <= features {
		return nil, fmt.Errorf("need more than %d rows to fit %d features", features, features)
	}

	// Design matrix with a leading column of ones for the intercept.
	design := mat.NewDense(len(x), features+1, nil)
	for i, row := range x {
		if len(row) != features {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), features)
		}
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}

	var beta mat.VecDense
	if err := beta.SolveVec(design, mat.NewVecDense(len(y), y)); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	coef := make([]float64, features)
	for j := 0; j < features; j++ {
		coef[j] = beta.AtVec(j + 1)
	}

	return &LinearModel{Intercept: beta.AtVec(0), Coef: coef}, nil
}

// Predict returns the model's estimate for a single feature vector
func (m *LinearModel) Predict(row []float64) float64 {
	out := m.Intercept
	for j, c := range m.Coef {
		if j < len(row) {
			out += c * row[j]
		}
	}
	return out
}
