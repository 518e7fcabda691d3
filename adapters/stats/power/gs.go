package power

import (
	"math"

	"procova/domain/core"
	"procova/domain/design"

	"gonum.org/v1/gonum/stat/distuv"
)

// GuentherSchoutenModel computes power from the Guenther-Schouten normal
// approximation: the sample-size formula n = (1+r)^2/r * sigma^2
// (z_a + z_b)^2 / delta^2 + z_a^2/2 solved for z_b at a fixed n. The
// z_a^2/2 term corrects for the estimated-variance degrees of freedom.
type GuentherSchoutenModel struct{}

// NewGuentherSchoutenModel creates the Guenther-Schouten power model
func NewGuentherSchoutenModel() *GuentherSchoutenModel {
	return &GuentherSchoutenModel{}
}

// Name returns the result-vector key for this model
func (m *GuentherSchoutenModel) Name() string {
	return design.KeyPowerGS
}

// Power computes the normal-approximation power for the given design
func (m *GuentherSchoutenModel) Power(in design.ModelInput) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	n1, n0, err := groupSizes(in)
	if err != nil {
		return 0, err
	}
	if degreesOfFreedom(in) < 1 {
		return 0, core.NewPreconditionError("n", "is too small for the residual degrees of freedom")
	}

	zAlpha := distuv.UnitNormal.Quantile(1 - in.Alpha/2)

	corrected := float64(in.N) - zAlpha*zAlpha/2
	if corrected <= 0 {
		return 0, nil
	}

	veff := in.EffectiveVariance()
	lambda := (in.ATE - in.Margin) / math.Sqrt(veff*(1/float64(n1)+1/float64(n0)))
	shrink := math.Sqrt(corrected / float64(in.N))

	return clampProbability(distuv.UnitNormal.CDF(lambda*shrink - zAlpha)), nil
}
