package ports

import "procova/domain/trial"

// SufficientStats derives the scalar nuisance parameters the power models
// consume from a historical dataset. Implementations are stateless and safe
// for concurrent use.
type SufficientStats interface {
	// OutcomeVariance returns the sample variance (n-1 denominator) of the
	// outcome column.
	OutcomeVariance(f *trial.Frame, outcome string) (float64, error)

	// Correlation returns the Pearson correlation between one covariate and
	// the outcome.
	Correlation(f *trial.Frame, outcome, covariate string) (float64, error)

	// RSquared returns Cov(Y,X) * Inv(Cov(X)) * Cov(X,Y) / Var(Y) over the
	// selected columns, after zero-sum column pruning.
	RSquared(f *trial.Frame, outcome string, columns []string) (float64, error)
}
