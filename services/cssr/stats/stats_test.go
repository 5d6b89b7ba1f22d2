// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package stats

import (
	"errors"
	"math"
	"testing"
)

func TestHomogeneity_IdenticalDistributions(t *testing.T) {
	// Identical vectors give a zero statistic regardless of alpha.
	for _, alpha := range []float64{0.001, 0.01, 0.05, 0.2} {
		r, err := Homogeneity([]int{50, 50}, []int{50, 50}, alpha, 5)
		if err != nil {
			t.Fatalf("Homogeneity(alpha=%g) error: %v", alpha, err)
		}
		if r.Outcome != Equivalent {
			t.Errorf("alpha=%g: Outcome = %v, want Equivalent", alpha, r.Outcome)
		}
		if r.Statistic != 0 {
			t.Errorf("alpha=%g: Statistic = %g, want 0", alpha, r.Statistic)
		}
		if r.PValue < 0.999 {
			t.Errorf("alpha=%g: PValue = %g, want ~1", alpha, r.PValue)
		}
	}
}

func TestHomogeneity_ClearlyDistinguishable(t *testing.T) {
	// Near-opposite distributions with large samples.
	r, err := Homogeneity([]int{95, 5}, []int{5, 95}, 0.05, 5)
	if err != nil {
		t.Fatalf("Homogeneity() error: %v", err)
	}
	if r.Outcome != Distinguishable {
		t.Errorf("Outcome = %v, want Distinguishable", r.Outcome)
	}
	if r.DegreesOfFreedom != 1 {
		t.Errorf("DegreesOfFreedom = %d, want 1", r.DegreesOfFreedom)
	}
	if r.PValue >= 0.05 {
		t.Errorf("PValue = %g, want < 0.05", r.PValue)
	}
}

func TestHomogeneity_KnownStatistic(t *testing.T) {
	// Hand-computed 2x2 table: A=[10,20], B=[20,10].
	// Column totals 30/30, grand 60, expected 15 everywhere.
	// statistic = 4 * (5^2/15) = 6.6667.
	r, err := Homogeneity([]int{10, 20}, []int{20, 10}, 0.05, 5)
	if err != nil {
		t.Fatalf("Homogeneity() error: %v", err)
	}
	if math.Abs(r.Statistic-20.0/3.0) > 1e-9 {
		t.Errorf("Statistic = %g, want %g", r.Statistic, 20.0/3.0)
	}
	// Survival of 6.667 at 1 dof is about 0.0098.
	if math.Abs(r.PValue-0.0098) > 0.001 {
		t.Errorf("PValue = %g, want ~0.0098", r.PValue)
	}
	if r.Outcome != Distinguishable {
		t.Errorf("Outcome = %v, want Distinguishable", r.Outcome)
	}
}

func TestHomogeneity_ZeroBothColumnsExcluded(t *testing.T) {
	// The middle symbol never occurs in either vector, so the table is
	// effectively 2x2 and dof must be 1, not 2.
	r, err := Homogeneity([]int{30, 0, 10}, []int{25, 0, 15}, 0.05, 5)
	if err != nil {
		t.Fatalf("Homogeneity() error: %v", err)
	}
	if r.DegreesOfFreedom != 1 {
		t.Errorf("DegreesOfFreedom = %d, want 1", r.DegreesOfFreedom)
	}
}

func TestHomogeneity_SingleColumnTriviallyEquivalent(t *testing.T) {
	// One shared category leaves zero degrees of freedom.
	r, err := Homogeneity([]int{40, 0}, []int{25, 0}, 0.05, 5)
	if err != nil {
		t.Fatalf("Homogeneity() error: %v", err)
	}
	if r.DegreesOfFreedom != 0 {
		t.Errorf("DegreesOfFreedom = %d, want 0", r.DegreesOfFreedom)
	}
	if r.Outcome != Equivalent {
		t.Errorf("Outcome = %v, want Equivalent", r.Outcome)
	}
	if r.PValue != 1 {
		t.Errorf("PValue = %g, want 1", r.PValue)
	}
}

func TestHomogeneity_InsufficientSupport(t *testing.T) {
	_, err := Homogeneity([]int{2, 1}, []int{30, 40}, 0.05, 5)
	if !errors.Is(err, ErrInsufficientSupport) {
		t.Errorf("Homogeneity() error = %v, want ErrInsufficientSupport", err)
	}
}

func TestHomogeneity_DimensionMismatch(t *testing.T) {
	_, err := Homogeneity([]int{1, 2, 3}, []int{1, 2}, 0.05, 5)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Homogeneity() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestHomogeneity_InvalidSignificance(t *testing.T) {
	for _, alpha := range []float64{0, 1, -0.1, 1.5} {
		_, err := Homogeneity([]int{10, 10}, []int{10, 10}, alpha, 5)
		if !errors.Is(err, ErrInvalidSignificance) {
			t.Errorf("alpha=%g: error = %v, want ErrInvalidSignificance", alpha, err)
		}
	}
}

func TestHomogeneity_MinSupportDefault(t *testing.T) {
	// minSupport <= 0 falls back to DefaultMinSupport, so totals of 3
	// must still be rejected.
	_, err := Homogeneity([]int{2, 1}, []int{2, 1}, 0.05, 0)
	if !errors.Is(err, ErrInsufficientSupport) {
		t.Errorf("Homogeneity() error = %v, want ErrInsufficientSupport", err)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []int
		want   Outcome
	}{
		{"identical", []int{50, 50}, []int{50, 50}, Equivalent},
		{"opposite", []int{95, 5}, []int{5, 95}, Distinguishable},
		{"low support", []int{1, 1}, []int{50, 50}, Indeterminate},
		{"mismatched lengths", []int{1, 2, 3}, []int{40, 40}, Indeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b, 0.05, 5); got != tt.want {
				t.Errorf("Compare() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{Equivalent, "equivalent"},
		{Distinguishable, "distinguishable"},
		{Indeterminate, "indeterminate"},
		{Outcome(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.o, got, tt.want)
		}
	}
}
