package design

import (
	"math"

	"procova/domain/core"
)

// Parameters holds the trial design inputs for a power estimation.
// Margin is subtracted from ATE before standardizing, so non-inferiority
// designs are expressed with a negative margin.
type Parameters struct {
	N      int     `json:"n"`      // total sample size
	Ratio  float64 `json:"r"`      // treatment:control allocation ratio
	ATE    float64 `json:"ate"`    // target average treatment effect
	Margin float64 `json:"margin"` // superiority / non-inferiority margin
	Alpha  float64 `json:"alpha"`  // significance level, halved downstream for the one-sided test
}

// Validate checks the design invariants (n > 0, r > 0, alpha in (0,1))
func (p Parameters) Validate() error {
	if p.N <= 0 {
		return core.NewPreconditionError("n", "must be a positive sample size")
	}
	if p.Ratio <= 0 {
		return core.NewPreconditionError("r", "must be a positive allocation ratio")
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return core.NewPreconditionError("alpha", "must lie in (0,1)")
	}
	return nil
}

// GroupSizes splits the total sample size by allocation ratio:
// n1 = round(n*r/(1+r)) treated, n0 = n-n1 control.
func (p Parameters) GroupSizes() (n1, n0 int) {
	n1 = int(math.Round(float64(p.N) * p.Ratio / (1 + p.Ratio)))
	n0 = p.N - n1
	return n1, n0
}
