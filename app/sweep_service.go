package app

import (
	"context"
	"sort"

	"procova/domain/core"
	"procova/domain/design"

	"golang.org/x/sync/errgroup"
)

// SweepService evaluates the power orchestrator over a grid of sample
// sizes, producing an ordered power curve. Each grid point is an
// independent stateless estimation, so points run in parallel with bounded
// concurrency.
type SweepService struct {
	power       *PowerService
	parallelism int
}

// SweepRequest is a base estimation request fanned out over SampleSizes
type SweepRequest struct {
	Base        EstimationRequest `json:"base"`
	SampleSizes []int             `json:"sample_sizes"`
}

// SweepPoint is one evaluated grid point
type SweepPoint struct {
	N      int                 `json:"n"`
	Result design.ResultVector `json:"result"`
}

// NewSweepService creates a sweep driver over the orchestrator
func NewSweepService(power *PowerService, parallelism int) *SweepService {
	if parallelism < 1 {
		parallelism = 4
	}
	return &SweepService{power: power, parallelism: parallelism}
}

// Run evaluates every sample size and returns points ordered by n.
// The first estimation failure cancels the remaining points.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) ([]SweepPoint, error) {
	if len(req.SampleSizes) == 0 {
		return nil, core.NewPreconditionError("sample_sizes", "must contain at least one grid point")
	}

	points := make([]SweepPoint, len(req.SampleSizes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i, n := range req.SampleSizes {
		i, n := i, n
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			call := req.Base
			call.Design.N = n
			result, err := s.power.Estimate(call)
			if err != nil {
				return err
			}
			points[i] = SweepPoint{N: n, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(points, func(i, j int) bool { return points[i].N < points[j].N })
	return points, nil
}
