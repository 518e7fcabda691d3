package power

import (
	"math"
	"testing"

	"procova/domain/core"
	"procova/domain/design"

	"gonum.org/v1/gonum/stat/distuv"
)

func anovaInput(n int) design.ModelInput {
	return design.ModelInput{
		N:      n,
		Ratio:  1,
		Sigma:  1,
		ATE:    0.5,
		Margin: 0,
		Alpha:  0.05,
		Method: design.MethodANOVA,
	}
}

func TestNoncentralTCDF_CentralCase(t *testing.T) {
	// With zero noncentrality the series must reproduce the central t CDF
	for _, df := range []float64{1, 5, 30, 126} {
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		for _, x := range []float64{-3, -1, -0.2, 0, 0.2, 1, 3} {
			got := noncentralTCDF(x, df, 0)
			want := dist.CDF(x)
			if math.Abs(got-want) > 1e-8 {
				t.Errorf("df=%v t=%v: expected %v, got %v", df, x, want, got)
			}
		}
	}
}

func TestNoncentralTCDF_Shift(t *testing.T) {
	// A positive noncentrality shifts mass right: CDF at the old median drops
	if got := noncentralTCDF(0, 10, 2); got >= 0.5 {
		t.Errorf("expected CDF(0) < 0.5 under delta=2, got %v", got)
	}
	// Symmetry: P(T<=t; delta) = 1 - P(T<=-t; -delta)
	left := noncentralTCDF(-1.5, 8, -1)
	right := 1 - noncentralTCDF(1.5, 8, 1)
	if math.Abs(left-right) > 1e-10 {
		t.Errorf("symmetry violated: %v vs %v", left, right)
	}
}

func TestNoncentralModel_KnownBenchmark(t *testing.T) {
	// Two-sample t-test, 64 per arm, standardized effect 0.5, alpha 0.05:
	// the textbook power is 0.8015.
	got, err := NewNoncentralModel().Power(anovaInput(128))
	if err != nil {
		t.Fatalf("Power failed: %v", err)
	}
	if math.Abs(got-0.8015) > 0.01 {
		t.Errorf("expected power near 0.8015, got %v", got)
	}
}

func TestGuentherSchoutenModel_TracksNoncentral(t *testing.T) {
	nc := NewNoncentralModel()
	gs := NewGuentherSchoutenModel()

	for _, n := range []int{24, 60, 128, 400} {
		in := anovaInput(n)
		exact, err := nc.Power(in)
		if err != nil {
			t.Fatalf("NC power failed at n=%d: %v", n, err)
		}
		approx, err := gs.Power(in)
		if err != nil {
			t.Fatalf("GS power failed at n=%d: %v", n, err)
		}
		if math.Abs(exact-approx) > 0.02 {
			t.Errorf("n=%d: GS %v drifted from NC %v", n, approx, exact)
		}
	}
}

func TestPower_Bounds(t *testing.T) {
	models := []interface {
		Power(design.ModelInput) (float64, error)
	}{NewNoncentralModel(), NewGuentherSchoutenModel()}

	inputs := []design.ModelInput{
		anovaInput(10),
		anovaInput(5000),
		{N: 80, Ratio: 2, Sigma: 4, ATE: 1, Margin: 0.2, Alpha: 0.1, Method: design.MethodANCOVA, Explained: 0.36},
		{N: 40, Ratio: 1, Sigma: 9, ATE: -2, Margin: 0, Alpha: 0.05, Method: design.MethodANOVA},
	}
	for _, m := range models {
		for i, in := range inputs {
			p, err := m.Power(in)
			if err != nil {
				t.Fatalf("input %d: %v", i, err)
			}
			if p < 0 || p > 1 {
				t.Errorf("input %d: power %v out of [0,1]", i, p)
			}
		}
	}
}

func TestPower_MonotoneInSampleSize(t *testing.T) {
	models := map[string]interface {
		Power(design.ModelInput) (float64, error)
	}{
		"NC": NewNoncentralModel(),
		"GS": NewGuentherSchoutenModel(),
	}
	for name, m := range models {
		prev := -1.0
		for _, n := range []int{20, 40, 80, 160, 320} {
			p, err := m.Power(anovaInput(n))
			if err != nil {
				t.Fatalf("%s at n=%d: %v", name, n, err)
			}
			if p < prev {
				t.Errorf("%s: power decreased from %v to %v at n=%d", name, prev, p, n)
			}
			prev = p
		}
	}
}

func TestPower_CovariateAdjustmentHelps(t *testing.T) {
	unadjusted := anovaInput(100)
	adjusted := unadjusted
	adjusted.Method = design.MethodANCOVA
	adjusted.Explained = 0.5

	m := NewNoncentralModel()
	p0, err := m.Power(unadjusted)
	if err != nil {
		t.Fatalf("unadjusted power failed: %v", err)
	}
	p1, err := m.Power(adjusted)
	if err != nil {
		t.Fatalf("adjusted power failed: %v", err)
	}
	if p1 <= p0 {
		t.Errorf("variance reduction should raise power: %v <= %v", p1, p0)
	}
}

func TestPower_MarginShiftsEffect(t *testing.T) {
	m := NewGuentherSchoutenModel()
	base := anovaInput(100)

	superiority := base
	superiority.Margin = 0.2
	nonInferiority := base
	nonInferiority.Margin = -0.2

	p, _ := m.Power(base)
	pSup, _ := m.Power(superiority)
	pNi, _ := m.Power(nonInferiority)
	if !(pSup < p && p < pNi) {
		t.Errorf("expected power ordering superiority < base < non-inferiority, got %v, %v, %v", pSup, p, pNi)
	}
}

func TestPower_InputValidation(t *testing.T) {
	m := NewNoncentralModel()

	bad := []design.ModelInput{
		{N: 0, Ratio: 1, Sigma: 1, Alpha: 0.05, Method: design.MethodANOVA},
		{N: 100, Ratio: -1, Sigma: 1, Alpha: 0.05, Method: design.MethodANOVA},
		{N: 100, Ratio: 1, Sigma: 0, Alpha: 0.05, Method: design.MethodANOVA},
		{N: 100, Ratio: 1, Sigma: 1, Alpha: 1.5, Method: design.MethodANOVA},
		{N: 100, Ratio: 1, Sigma: 1, Alpha: 0.05, Method: "bogus"},
		{N: 100, Ratio: 1, Sigma: 1, Alpha: 0.05, Method: design.MethodANCOVA, Explained: 1},
		{N: 3, Ratio: 1, Sigma: 1, Alpha: 0.05, Method: design.MethodANCOVA, Explained: 0.5},
	}
	for i, in := range bad {
		if _, err := m.Power(in); !core.IsPreconditionError(err) {
			t.Errorf("case %d: expected precondition error, got %v", i, err)
		}
	}
}
