package app

import (
	"testing"

	"procova/adapters/stats/extract"
	"procova/adapters/stats/power"
	"procova/domain/core"
	"procova/domain/design"
	"procova/domain/trial"
	"procova/internal/testkit"

	montanaflynn "github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *PowerService {
	return NewPowerService(
		extract.NewExtractor(),
		power.NewNoncentralModel(),
		power.NewGuentherSchoutenModel(),
	)
}

func cohort(t *testing.T, spec testkit.CohortSpec) *EstimationRequest {
	t.Helper()
	frame, err := testkit.GenerateCohort(spec)
	require.NoError(t, err)
	return &EstimationRequest{
		Frame:     frame,
		Outcome:   testkit.OutcomeColumn,
		Treatment: testkit.TreatmentColumn,
		Design:    design.Parameters{N: 100, Ratio: 1, ATE: 1, Alpha: 0.05},
	}
}

func defaultCohort(t *testing.T) *EstimationRequest {
	return cohort(t, testkit.CohortSpec{
		Rows:           200,
		Covariates:     2,
		Correlation:    0.6,
		TreatmentShare: 0.5,
		OutcomeScale:   6,
		Seed:           42,
	})
}

func TestEstimate_AnovaBranchKeys(t *testing.T) {
	req := defaultCohort(t)
	req.Design = design.Parameters{N: 53, Ratio: 1, ATE: 3, Alpha: 0.05}

	result, err := newService().Estimate(*req)
	require.NoError(t, err)

	assert.Len(t, result, 3)
	assert.True(t, result.Has(design.KeySigma))
	assert.True(t, result.Has(design.KeyPowerNC))
	assert.True(t, result.Has(design.KeyPowerGS))
	assert.False(t, result.Has(design.KeyRho))
	assert.False(t, result.Has(design.KeyR2))

	// sigma must match the sample variance of the outcome column
	y, err := req.Frame.Column(testkit.OutcomeColumn)
	require.NoError(t, err)
	want, err := montanaflynn.SampleVariance(y)
	require.NoError(t, err)
	assert.InDelta(t, want, result[design.KeySigma], 1e-12)

	// non-trivial effect size: both powers strictly inside (0,1)
	assert.Greater(t, result[design.KeyPowerNC], 0.0)
	assert.Less(t, result[design.KeyPowerNC], 1.0)
	assert.Greater(t, result[design.KeyPowerGS], 0.0)
	assert.Less(t, result[design.KeyPowerGS], 1.0)
}

func TestEstimate_SingleCovariateBranchKeys(t *testing.T) {
	req := defaultCohort(t)
	req.Covariates = []string{"cov1"}

	result, err := newService().Estimate(*req)
	require.NoError(t, err)

	assert.Len(t, result, 4)
	assert.True(t, result.Has(design.KeyRho))
	assert.False(t, result.Has(design.KeyR2))
	assert.GreaterOrEqual(t, result[design.KeyRho], -1.0)
	assert.LessOrEqual(t, result[design.KeyRho], 1.0)
	// the cohort is built with a 0.6 correlation target
	assert.InDelta(t, 0.6, result[design.KeyRho], 0.15)
}

func TestEstimate_MultiCovariateBranchKeys(t *testing.T) {
	req := defaultCohort(t)
	req.Covariates = []string{"cov1", "cov2"}

	result, err := newService().Estimate(*req)
	require.NoError(t, err)

	assert.Len(t, result, 4)
	assert.True(t, result.Has(design.KeyR2))
	assert.False(t, result.Has(design.KeyRho))
	assert.GreaterOrEqual(t, result[design.KeyR2], 0.0)
	assert.LessOrEqual(t, result[design.KeyR2], 1.0)
}

func TestEstimate_InteractionRoutesToMultiBranch(t *testing.T) {
	req := defaultCohort(t)
	req.Covariates = []string{"cov1"}
	req.Interaction = true

	result, err := newService().Estimate(*req)
	require.NoError(t, err)
	assert.True(t, result.Has(design.KeyR2), "single covariate with interaction takes the R2 path")
	assert.False(t, result.Has(design.KeyRho))
}

func TestEstimate_DegenerateInteractionEquivalence(t *testing.T) {
	// All-zero treatment: zero-sum pruning must neutralize the interaction
	// terms, so R2 matches the no-interaction estimate exactly.
	base := cohort(t, testkit.CohortSpec{
		Rows:           150,
		Covariates:     2,
		Correlation:    0.5,
		TreatmentShare: 0, // constant-zero treatment indicator
		OutcomeScale:   2,
		Seed:           7,
	})
	base.Covariates = []string{"cov1", "cov2"}

	withInteraction := *base
	withInteraction.Interaction = true

	svc := newService()
	plain, err := svc.Estimate(*base)
	require.NoError(t, err)
	degenerate, err := svc.Estimate(withInteraction)
	require.NoError(t, err)

	assert.Equal(t, plain[design.KeyR2], degenerate[design.KeyR2])
}

func TestEstimate_InteractionDoesNotMutateCallerFrame(t *testing.T) {
	req := defaultCohort(t)
	req.Covariates = []string{"cov1", "cov2"}
	req.Interaction = true

	_, err := newService().Estimate(*req)
	require.NoError(t, err)
	assert.False(t, req.Frame.HasColumn("cov1"+trial.InteractionSuffix))
	assert.False(t, req.Frame.HasColumn("cov2"+trial.InteractionSuffix))
}

func TestEstimate_Idempotent(t *testing.T) {
	req := defaultCohort(t)
	req.Covariates = []string{"cov1", "cov2"}
	req.Interaction = true

	svc := newService()
	first, err := svc.Estimate(*req)
	require.NoError(t, err)
	second, err := svc.Estimate(*req)
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated calls must be bit-identical")
}

func TestEstimate_ErrorPropagation(t *testing.T) {
	svc := newService()

	missing := defaultCohort(t)
	missing.Covariates = []string{"not_a_column"}
	_, err := svc.Estimate(*missing)
	assert.True(t, core.IsAdjustmentSpecError(err), "got %v", err)

	collinearFrame, buildErr := missing.Frame.WithColumn("cov1_copy", mustColumn(t, missing))
	require.NoError(t, buildErr)
	collinear := *missing
	collinear.Frame = collinearFrame
	collinear.Covariates = []string{"cov1", "cov1_copy"}
	_, err = svc.Estimate(collinear)
	assert.True(t, core.IsSingularCovarianceError(err), "got %v", err)

	badDesign := defaultCohort(t)
	badDesign.Design.Alpha = 2
	_, err = svc.Estimate(*badDesign)
	assert.True(t, core.IsPreconditionError(err), "got %v", err)

	_, err = svc.Estimate(EstimationRequest{})
	assert.True(t, core.IsPreconditionError(err), "got %v", err)
}

func mustColumn(t *testing.T, req *EstimationRequest) []float64 {
	t.Helper()
	vals, err := req.Frame.Column("cov1")
	require.NoError(t, err)
	return vals
}
