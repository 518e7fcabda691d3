// Package extract derives nuisance parameters (outcome variance, covariate
// correlation, R^2) from historical trial data.
package extract

import (
	"math"

	"procova/domain/core"
	"procova/domain/trial"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Extractor computes sufficient statistics over a historical frame. It holds
// no state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a sufficient-statistics extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// OutcomeVariance returns the sample variance of the outcome column using
// the n-1 denominator convention.
func (e *Extractor) OutcomeVariance(f *trial.Frame, outcome string) (float64, error) {
	y, err := numericColumn(f, outcome)
	if err != nil {
		return 0, err
	}
	variance, err := stats.SampleVariance(y)
	if err != nil {
		return 0, core.NewDataShapeError(outcome, "has no computable variance")
	}
	return variance, nil
}

// Correlation returns the Pearson correlation between the covariate and the
// outcome column.
func (e *Extractor) Correlation(f *trial.Frame, outcome, covariate string) (float64, error) {
	y, err := numericColumn(f, outcome)
	if err != nil {
		return 0, err
	}
	x, err := numericColumn(f, covariate)
	if err != nil {
		return 0, err
	}
	rho, err := stats.Pearson(x, y)
	if err != nil {
		return 0, core.NewDataShapeError(covariate, "has no computable correlation with the outcome")
	}
	return rho, nil
}

// RSquared computes Cov(Y,X) * Inv(Cov(X)) * Cov(X,Y) / Var(Y) over the
// selected columns. Columns whose values sum to exactly zero are pruned
// before the covariance matrix is formed; a constant-zero treatment
// indicator therefore neutralizes every interaction column and R^2 falls
// back to the plain covariate computation. The covariance matrix is
// factorized by Cholesky decomposition, so collinear or under-determined
// covariate sets fail with a singular-covariance error rather than falling
// back to a pseudo-inverse.
func (e *Extractor) RSquared(f *trial.Frame, outcome string, columns []string) (float64, error) {
	y, err := numericColumn(f, outcome)
	if err != nil {
		return 0, err
	}
	sigma, err := stats.SampleVariance(y)
	if err != nil || sigma == 0 {
		return 0, core.NewDataShapeError(outcome, "has no computable variance")
	}

	kept := make([]string, 0, len(columns))
	data := make([][]float64, 0, len(columns))
	for _, name := range columns {
		vals, err := numericColumn(f, name)
		if err != nil {
			return 0, err
		}
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		// Zero-sum pruning: dropped iff the column sum, not the variance,
		// is exactly zero.
		if sum == 0 {
			continue
		}
		kept = append(kept, name)
		data = append(data, vals)
	}
	if len(kept) == 0 {
		return 0, nil
	}

	n := f.NumRows()
	p := len(kept)
	x := mat.NewDense(n, p, nil)
	for j, vals := range data {
		for i, v := range vals {
			x.Set(i, j, v)
		}
	}

	covX := mat.NewSymDense(p, nil)
	stat.CovarianceMatrix(covX, x, nil)

	covYX := mat.NewVecDense(p, nil)
	for j, vals := range data {
		covYX.SetVec(j, stat.Covariance(y, vals, nil))
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(covX); !ok {
		return 0, core.NewSingularCovarianceError(kept)
	}
	var solved mat.VecDense
	if err := chol.SolveVecTo(&solved, covYX); err != nil {
		return 0, core.NewSingularCovarianceError(kept)
	}

	return mat.Dot(covYX, &solved) / sigma, nil
}

// numericColumn fetches a column and enforces the data-shape contract:
// at least 2 observations, no missing values.
func numericColumn(f *trial.Frame, name string) ([]float64, error) {
	vals, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	if len(vals) < 2 {
		return nil, core.NewDataShapeError(name, "needs at least 2 observations")
	}
	for _, v := range vals {
		if math.IsNaN(v) {
			return nil, core.NewDataShapeError(name, "contains missing values")
		}
	}
	return vals, nil
}
