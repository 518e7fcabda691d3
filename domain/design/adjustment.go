package design

import "procova/domain/core"

// Adjustment is the closed set of covariate-adjustment branches. Exactly one
// variant applies to any estimation call; dispatch happens once when the raw
// request is converted by NewAdjustment.
type Adjustment interface {
	isAdjustment()
	// Branch returns the stable branch name used in run records
	Branch() string
}

// Anova is the unadjusted branch (no covariates)
type Anova struct{}

// SingleCovariate adjusts for exactly one covariate without interaction,
// using the Pearson correlation with the outcome.
type SingleCovariate struct {
	Covariate string
}

// MultiCovariate adjusts for one or more covariates, optionally with
// covariate-by-treatment interaction terms, using the coefficient of
// determination.
type MultiCovariate struct {
	Covariates  []string
	Interaction bool
}

func (Anova) isAdjustment()           {}
func (SingleCovariate) isAdjustment() {}
func (MultiCovariate) isAdjustment()  {}

func (Anova) Branch() string           { return "anova" }
func (SingleCovariate) Branch() string { return "ancova_single" }
func (MultiCovariate) Branch() string  { return "ancova_multi" }

// NewAdjustment converts raw request fields into the adjustment variant.
// Priority matches the estimation contract: no covariates wins over the
// interaction flag, a lone covariate without interaction takes the
// correlation path, everything else takes the multi-covariate path.
func NewAdjustment(covariates []string, interaction bool) (Adjustment, error) {
	for _, c := range covariates {
		if c == "" {
			return nil, core.NewPreconditionError("adj.covs", "must not contain empty covariate names")
		}
	}
	switch {
	case len(covariates) == 0:
		return Anova{}, nil
	case len(covariates) == 1 && !interaction:
		return SingleCovariate{Covariate: covariates[0]}, nil
	default:
		covs := make([]string, len(covariates))
		copy(covs, covariates)
		return MultiCovariate{Covariates: covs, Interaction: interaction}, nil
	}
}
