// Package prognostic fits the historical prognostic model whose prediction
// becomes the single PROCOVA adjustment covariate. The fit is a fixed
// least-squares regression of the outcome on the selected covariates; the
// power engine only ever consumes the resulting score column.
package prognostic

import (
	"math"

	"procova/domain/core"
	"procova/domain/trial"

	"gonum.org/v1/gonum/mat"
)

// ScoreColumn is the default name of the appended prognostic score
const ScoreColumn = "procova_score"

// Scorer fits ordinary-least-squares prognostic models
type Scorer struct{}

// NewScorer creates a prognostic scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Model is a fitted prognostic model
type Model struct {
	Intercept    float64
	Coefficients []float64
	covariates   []string
}

// Fit regresses the outcome on the covariates with an intercept term.
// Rank-deficient design matrices fail with a singular-covariance error.
func (s *Scorer) Fit(f *trial.Frame, outcome string, covariates []string) (*Model, error) {
	if len(covariates) == 0 {
		return nil, core.NewPreconditionError("covariates", "must name at least one predictor")
	}
	y, err := column(f, outcome)
	if err != nil {
		return nil, err
	}
	n := f.NumRows()
	p := len(covariates)
	if n < p+2 {
		return nil, core.NewDataShapeError(outcome, "has too few rows for the requested predictors")
	}

	x := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
	}
	for j, cov := range covariates {
		vals, err := column(f, cov)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			x.Set(i, j+1, v)
		}
	}

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, mat.NewDense(n, 1, y)); err != nil {
		return nil, core.NewSingularCovarianceError(covariates)
	}

	coeffs := make([]float64, p)
	for j := 0; j < p; j++ {
		coeffs[j] = beta.At(j+1, 0)
	}
	covs := make([]string, p)
	copy(covs, covariates)
	return &Model{Intercept: beta.At(0, 0), Coefficients: coeffs, covariates: covs}, nil
}

// Score predicts the outcome for every row of the frame
func (m *Model) Score(f *trial.Frame) ([]float64, error) {
	scores := make([]float64, f.NumRows())
	for i := range scores {
		scores[i] = m.Intercept
	}
	for j, cov := range m.covariates {
		vals, err := column(f, cov)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			scores[i] += m.Coefficients[j] * v
		}
	}
	return scores, nil
}

// Augment returns a derived frame with the prognostic score appended under
// the given column name (ScoreColumn if empty).
func (m *Model) Augment(f *trial.Frame, name string) (*trial.Frame, error) {
	if name == "" {
		name = ScoreColumn
	}
	scores, err := m.Score(f)
	if err != nil {
		return nil, err
	}
	return f.WithColumn(name, scores)
}

func column(f *trial.Frame, name string) ([]float64, error) {
	vals, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		if math.IsNaN(v) {
			return nil, core.NewDataShapeError(name, "contains missing values")
		}
	}
	return vals, nil
}
