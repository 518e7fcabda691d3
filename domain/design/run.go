package design

import "procova/domain/core"

// Run records a completed power estimation for persistence and audit
type Run struct {
	ID          core.RunID     `json:"id" db:"id"`
	Dataset     string         `json:"dataset" db:"dataset"`
	Branch      string         `json:"branch" db:"branch"`
	Outcome     string         `json:"outcome" db:"outcome"`
	Covariates  []string       `json:"covariates" db:"-"`
	Interaction bool           `json:"interaction" db:"interaction"`
	Design      Parameters     `json:"design" db:"-"`
	Results     ResultVector   `json:"results" db:"-"`
	CreatedAt   core.Timestamp `json:"created_at" db:"created_at"`
}

// NewRun assembles a run record from an estimation
func NewRun(dataset string, adjustment Adjustment, outcome string, covariates []string, interaction bool, params Parameters, results ResultVector) *Run {
	return &Run{
		ID:          core.RunID(core.NewID()),
		Dataset:     dataset,
		Branch:      adjustment.Branch(),
		Outcome:     outcome,
		Covariates:  covariates,
		Interaction: interaction,
		Design:      params,
		Results:     results.Clone(),
		CreatedAt:   core.Now(),
	}
}
