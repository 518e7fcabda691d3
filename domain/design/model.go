package design

import "procova/domain/core"

// Method selects the variance-reduction convention for the power models
type Method string

const (
	MethodANOVA  Method = "anova"
	MethodANCOVA Method = "ancova"
)

// ModelInput is the shared input contract of the power models. Explained is
// the squared outcome/covariate association (rho^2 for a single covariate,
// R^2 for the multi-covariate branch); the models reduce the outcome
// variance to Sigma*(1-Explained) under MethodANCOVA and ignore it under
// MethodANOVA.
type ModelInput struct {
	N         int
	Ratio     float64
	Sigma     float64
	ATE       float64
	Margin    float64
	Alpha     float64
	Method    Method
	Explained float64
}

// Validate checks the model input invariants shared by both power models
func (in ModelInput) Validate() error {
	if err := (Parameters{N: in.N, Ratio: in.Ratio, ATE: in.ATE, Margin: in.Margin, Alpha: in.Alpha}).Validate(); err != nil {
		return err
	}
	if in.Sigma <= 0 {
		return core.NewPreconditionError("sigma", "must be a positive outcome variance")
	}
	switch in.Method {
	case MethodANOVA:
	case MethodANCOVA:
		if in.Explained < 0 || in.Explained >= 1 {
			return core.NewPreconditionError("explained", "must lie in [0,1) for covariate adjustment")
		}
	default:
		return core.NewPreconditionError("method", "must be anova or ancova")
	}
	return nil
}

// EffectiveVariance applies the covariate variance reduction
func (in ModelInput) EffectiveVariance() float64 {
	if in.Method == MethodANCOVA {
		return in.Sigma * (1 - in.Explained)
	}
	return in.Sigma
}
