// Package power implements the two closed-form power approximations for
// two-arm designs: the exact noncentral-t calculation and the
// Guenther-Schouten normal approximation. Both apply a one-sided test at
// alpha/2 per regulatory convention and reduce the outcome variance by the
// covariate explanatory power under ANCOVA.
package power

import (
	"math"

	"procova/domain/core"
	"procova/domain/design"

	"gonum.org/v1/gonum/stat/distuv"
)

// NoncentralModel computes power from the exact noncentral t distribution
// implied by the variance-adjusted effect size.
type NoncentralModel struct{}

// NewNoncentralModel creates the noncentral-t power model
func NewNoncentralModel() *NoncentralModel {
	return &NoncentralModel{}
}

// Name returns the result-vector key for this model
func (m *NoncentralModel) Name() string {
	return design.KeyPowerNC
}

// Power computes P(reject H0) for the given design. The critical value is
// the central t quantile at 1-alpha/2; the rejection probability is the
// upper tail of the noncentral t at that point.
func (m *NoncentralModel) Power(in design.ModelInput) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	n1, n0, err := groupSizes(in)
	if err != nil {
		return 0, err
	}
	df := degreesOfFreedom(in)
	if df < 1 {
		return 0, core.NewPreconditionError("n", "is too small for the residual degrees of freedom")
	}

	veff := in.EffectiveVariance()
	se := math.Sqrt(veff * (1/float64(n1) + 1/float64(n0)))
	ncp := (in.ATE - in.Margin) / se

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	tCrit := tDist.Quantile(1 - in.Alpha/2)

	return clampProbability(1 - noncentralTCDF(tCrit, df, ncp)), nil
}

// groupSizes splits the total sample size by allocation ratio:
// n1 = round(n*r/(1+r)), n0 = n-n1.
func groupSizes(in design.ModelInput) (n1, n0 int, err error) {
	n1, n0 = design.Parameters{N: in.N, Ratio: in.Ratio}.GroupSizes()
	if n1 < 1 || n0 < 1 {
		return 0, 0, core.NewPreconditionError("n", "leaves an empty arm under the allocation ratio")
	}
	return n1, n0, nil
}

// degreesOfFreedom follows the ANCOVA convention of one fitted covariate
// term: n-2 unadjusted, n-3 adjusted.
func degreesOfFreedom(in design.ModelInput) float64 {
	if in.Method == design.MethodANCOVA {
		return float64(in.N - 3)
	}
	return float64(in.N - 2)
}

func clampProbability(p float64) float64 {
	return math.Min(1, math.Max(0, p))
}
