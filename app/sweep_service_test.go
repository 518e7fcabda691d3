package app

import (
	"context"
	"testing"

	"procova/domain/core"
	"procova/domain/design"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_OrderedMonotoneCurve(t *testing.T) {
	base := defaultCohort(t)
	base.Design.ATE = 3
	sweep := NewSweepService(newService(), 3)

	points, err := sweep.Run(context.Background(), SweepRequest{
		Base:        *base,
		SampleSizes: []int{120, 40, 80, 200}, // deliberately unordered
	})
	require.NoError(t, err)
	require.Len(t, points, 4)

	prevN := 0
	prevPower := -1.0
	for _, pt := range points {
		assert.Greater(t, pt.N, prevN, "points must be ordered by n")
		assert.GreaterOrEqual(t, pt.Result[design.KeyPowerNC], prevPower,
			"power must not decrease with n")
		prevN = pt.N
		prevPower = pt.Result[design.KeyPowerNC]
	}
}

func TestSweep_PropagatesEstimationFailure(t *testing.T) {
	base := defaultCohort(t)
	base.Covariates = []string{"not_a_column"}
	sweep := NewSweepService(newService(), 2)

	_, err := sweep.Run(context.Background(), SweepRequest{
		Base:        *base,
		SampleSizes: []int{50, 100},
	})
	assert.True(t, core.IsAdjustmentSpecError(err), "got %v", err)
}

func TestSweep_RequiresGridPoints(t *testing.T) {
	sweep := NewSweepService(newService(), 2)
	_, err := sweep.Run(context.Background(), SweepRequest{Base: *defaultCohort(t)})
	assert.True(t, core.IsPreconditionError(err), "got %v", err)
}
