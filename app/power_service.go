package app

import (
	"procova/domain/core"
	"procova/domain/design"
	"procova/domain/trial"
	"procova/ports"
)

// PowerService is the power-estimation orchestrator: it selects the
// adjustment branch, drives the sufficient-statistics extractor and invokes
// each power model, assembling the branch-dependent result vector. It holds
// no state across calls; any extractor or model failure propagates
// unchanged with no partial result.
type PowerService struct {
	stats  ports.SufficientStats
	models []ports.PowerModel
}

// EstimationRequest carries one complete power-estimation call
type EstimationRequest struct {
	Frame       *trial.Frame      `json:"-"`
	Outcome     string            `json:"outcome"`
	Treatment   string            `json:"treatment"`
	Covariates  []string          `json:"covariates,omitempty"`
	Interaction bool              `json:"interaction"`
	Design      design.Parameters `json:"design"`
}

// NewPowerService creates the orchestrator over an extractor and the power
// models whose outputs populate the result vector.
func NewPowerService(stats ports.SufficientStats, models ...ports.PowerModel) *PowerService {
	return &PowerService{stats: stats, models: models}
}

// Estimate runs one power estimation and returns the result vector
func (s *PowerService) Estimate(req EstimationRequest) (design.ResultVector, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	adjustment, err := design.NewAdjustment(req.Covariates, req.Interaction)
	if err != nil {
		return nil, err
	}

	sigma, err := s.stats.OutcomeVariance(req.Frame, req.Outcome)
	if err != nil {
		return nil, err
	}

	result := design.ResultVector{design.KeySigma: sigma}
	input := design.ModelInput{
		N:      req.Design.N,
		Ratio:  req.Design.Ratio,
		Sigma:  sigma,
		ATE:    req.Design.ATE,
		Margin: req.Design.Margin,
		Alpha:  req.Design.Alpha,
	}

	switch adj := adjustment.(type) {
	case design.Anova:
		input.Method = design.MethodANOVA

	case design.SingleCovariate:
		rho, err := s.stats.Correlation(req.Frame, req.Outcome, adj.Covariate)
		if err != nil {
			return nil, err
		}
		result[design.KeyRho] = rho
		input.Method = design.MethodANCOVA
		input.Explained = rho * rho

	case design.MultiCovariate:
		frame := req.Frame
		columns := adj.Covariates
		if adj.Interaction {
			derived, added, err := frame.WithInteractions(adj.Covariates, req.Treatment)
			if err != nil {
				return nil, err
			}
			frame = derived
			columns = append(append([]string{}, adj.Covariates...), added...)
		}
		r2, err := s.stats.RSquared(frame, req.Outcome, columns)
		if err != nil {
			return nil, err
		}
		result[design.KeyR2] = r2
		input.Method = design.MethodANCOVA
		input.Explained = r2
	}

	for _, model := range s.models {
		p, err := model.Power(input)
		if err != nil {
			return nil, err
		}
		result[model.Name()] = p
	}
	return result, nil
}

// validateRequest enforces the boundary preconditions before any
// computation starts.
func validateRequest(req EstimationRequest) error {
	if req.Frame == nil || req.Frame.NumRows() < 1 {
		return core.NewPreconditionError("data.hist", "must be a table with at least one row")
	}
	if req.Outcome == "" {
		return core.NewPreconditionError("outcome.var", "must be a single column name")
	}
	if req.Treatment == "" {
		return core.NewPreconditionError("treatment.var", "must be a single column name")
	}
	return req.Design.Validate()
}
