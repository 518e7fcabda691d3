// Package testkit generates deterministic synthetic historical cohorts for
// tests, demos and sweep examples.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"procova/domain/core"
	"procova/domain/trial"
)

// Standard column names produced by the generator
const (
	OutcomeColumn   = "outcome"
	TreatmentColumn = "treatment"
)

// CohortSpec parameterizes a synthetic historical cohort
type CohortSpec struct {
	Rows           int
	Covariates     int     // number of cov1..covK columns
	Correlation    float64 // target correlation between cov1 and the outcome
	TreatmentShare float64 // Bernoulli probability of treatment = 1
	OutcomeMean    float64
	OutcomeScale   float64 // standard deviation of the outcome
	Seed           int64
}

// GenerateCohort builds a frame with an outcome, a 0/1 treatment indicator
// and K standard-normal covariates. The outcome is a linear signal in cov1
// with noise scaled so its correlation with cov1 approaches the target.
// Identical specs produce identical frames.
func GenerateCohort(spec CohortSpec) (*trial.Frame, error) {
	if spec.Rows < 2 {
		return nil, core.NewPreconditionError("rows", "must be at least 2")
	}
	if spec.Covariates < 0 {
		return nil, core.NewPreconditionError("covariates", "must not be negative")
	}
	if spec.Correlation < -1 || spec.Correlation > 1 {
		return nil, core.NewPreconditionError("correlation", "must lie in [-1,1]")
	}
	scale := spec.OutcomeScale
	if scale == 0 {
		scale = 1
	}

	rng := rand.New(rand.NewSource(spec.Seed))

	names := []string{OutcomeColumn, TreatmentColumn}
	cols := map[string][]float64{}

	covNames := make([]string, spec.Covariates)
	for j := range covNames {
		name := fmt.Sprintf("cov%d", j+1)
		covNames[j] = name
		names = append(names, name)
		vals := make([]float64, spec.Rows)
		for i := range vals {
			vals[i] = rng.NormFloat64()
		}
		cols[name] = vals
	}

	rho := spec.Correlation
	noise := math.Sqrt(1 - rho*rho)
	outcome := make([]float64, spec.Rows)
	treatment := make([]float64, spec.Rows)
	for i := range outcome {
		signal := 0.0
		if spec.Covariates > 0 {
			signal = rho * cols[covNames[0]][i]
		}
		outcome[i] = spec.OutcomeMean + scale*(signal+noise*rng.NormFloat64())
		if rng.Float64() < spec.TreatmentShare {
			treatment[i] = 1
		}
	}
	cols[OutcomeColumn] = outcome
	cols[TreatmentColumn] = treatment

	return trial.NewFrame(names, cols)
}

// CovariateNames returns the covariate column names for a cohort of K covariates
func CovariateNames(k int) []string {
	names := make([]string, k)
	for j := range names {
		names[j] = fmt.Sprintf("cov%d", j+1)
	}
	return names
}
