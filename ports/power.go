package ports

import "procova/domain/design"

// PowerModel computes the probability of rejecting the null for a given
// design. Implementations are pure functions of the input.
type PowerModel interface {
	// Name returns the result-vector key the model's output is stored under
	Name() string

	// Power returns a probability in [0,1]
	Power(in design.ModelInput) (float64, error)
}
