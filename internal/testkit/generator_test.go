package testkit

import (
	"math"
	"testing"

	montanaflynn "github.com/montanaflynn/stats"
)

func TestGenerateCohort_Deterministic(t *testing.T) {
	spec := CohortSpec{Rows: 100, Covariates: 2, Correlation: 0.5, TreatmentShare: 0.5, Seed: 11}

	a, err := GenerateCohort(spec)
	if err != nil {
		t.Fatalf("GenerateCohort failed: %v", err)
	}
	b, err := GenerateCohort(spec)
	if err != nil {
		t.Fatalf("GenerateCohort failed: %v", err)
	}

	ya, _ := a.Column(OutcomeColumn)
	yb, _ := b.Column(OutcomeColumn)
	for i := range ya {
		if ya[i] != yb[i] {
			t.Fatalf("row %d: identical specs produced different outcomes", i)
		}
	}
}

func TestGenerateCohort_Columns(t *testing.T) {
	frame, err := GenerateCohort(CohortSpec{Rows: 50, Covariates: 3, Correlation: 0.4, TreatmentShare: 0.5, Seed: 2})
	if err != nil {
		t.Fatalf("GenerateCohort failed: %v", err)
	}

	for _, name := range append([]string{OutcomeColumn, TreatmentColumn}, CovariateNames(3)...) {
		if !frame.HasColumn(name) {
			t.Errorf("expected column %q", name)
		}
	}

	w, _ := frame.Column(TreatmentColumn)
	for i, v := range w {
		if v != 0 && v != 1 {
			t.Errorf("row %d: treatment indicator %v is not 0/1", i, v)
		}
	}
}

func TestGenerateCohort_TargetCorrelation(t *testing.T) {
	frame, err := GenerateCohort(CohortSpec{Rows: 2000, Covariates: 1, Correlation: 0.7, TreatmentShare: 0.5, Seed: 3})
	if err != nil {
		t.Fatalf("GenerateCohort failed: %v", err)
	}

	y, _ := frame.Column(OutcomeColumn)
	x, _ := frame.Column("cov1")
	rho, err := montanaflynn.Pearson(x, y)
	if err != nil {
		t.Fatalf("Pearson failed: %v", err)
	}
	if math.Abs(rho-0.7) > 0.05 {
		t.Errorf("expected correlation near 0.7, got %v", rho)
	}
}

func TestGenerateCohort_ConstantZeroTreatment(t *testing.T) {
	frame, err := GenerateCohort(CohortSpec{Rows: 40, Covariates: 1, TreatmentShare: 0, Seed: 5})
	if err != nil {
		t.Fatalf("GenerateCohort failed: %v", err)
	}
	w, _ := frame.Column(TreatmentColumn)
	for i, v := range w {
		if v != 0 {
			t.Fatalf("row %d: expected constant-zero treatment, got %v", i, v)
		}
	}
}

func TestGenerateCohort_Validation(t *testing.T) {
	bad := []CohortSpec{
		{Rows: 1, Covariates: 1},
		{Rows: 10, Covariates: -1},
		{Rows: 10, Covariates: 1, Correlation: 1.5},
	}
	for i, spec := range bad {
		if _, err := GenerateCohort(spec); err == nil {
			t.Errorf("case %d: expected error for %+v", i, spec)
		}
	}
}
