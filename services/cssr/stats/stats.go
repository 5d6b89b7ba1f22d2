// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package stats decides whether two next-symbol frequency distributions
// are statistically distinguishable.
//
// The test is a chi-square test of homogeneity over a 2xK contingency
// table. Symbols with zero count in both distributions are structurally
// absent and excluded from the table so they do not inflate the degrees
// of freedom.
package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMinSupport is the minimum total count per distribution below
// which the chi-square approximation is considered invalid.
const DefaultMinSupport = 5

// Outcome is the result of an equivalence test.
type Outcome int

const (
	// Equivalent means the null hypothesis of identical distributions
	// could not be rejected at the configured significance level.
	Equivalent Outcome = iota

	// Distinguishable means the null hypothesis was rejected.
	Distinguishable

	// Indeterminate means at least one distribution lacked the support
	// required for a valid test. Callers must not split on this outcome.
	Indeterminate
)

// String returns the string representation.
func (o Outcome) String() string {
	switch o {
	case Equivalent:
		return "equivalent"
	case Distinguishable:
		return "distinguishable"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Result holds the details of one homogeneity test.
type Result struct {
	// Statistic is the chi-square statistic of the 2xK table.
	Statistic float64

	// PValue is the probability of a statistic at least this large under
	// the null hypothesis.
	PValue float64

	// DegreesOfFreedom is K'-1 where K' counts columns with nonzero
	// combined support.
	DegreesOfFreedom int

	// Outcome is Equivalent when PValue >= SignificanceLevel.
	Outcome Outcome

	// SignificanceLevel is the alpha used.
	SignificanceLevel float64
}

// Homogeneity runs a chi-square test of homogeneity on two frequency
// vectors.
//
// Description:
//
//	Builds a 2xK contingency table from the two count vectors, drops
//	columns with zero combined count, and compares the chi-square
//	statistic with K'-1 degrees of freedom against alpha. With zero
//	remaining degrees of freedom the distributions share a single
//	category and are trivially equivalent.
//
// Inputs:
//
//	countsA, countsB - Next-symbol frequency vectors of equal length.
//	alpha - Significance level in (0, 1).
//	minSupport - Minimum total count per vector for a valid test.
//	  Non-positive values fall back to DefaultMinSupport.
//
// Outputs:
//
//	*Result - Test details with the outcome.
//	error - ErrDimensionMismatch, ErrInvalidSignificance, or
//	  ErrInsufficientSupport when either vector's total is below the
//	  floor. Callers treat insufficient support as "cannot decide, do
//	  not split".
//
// Thread Safety: This function is stateless and safe for concurrent use.
func Homogeneity(countsA, countsB []int, alpha float64, minSupport int) (*Result, error) {
	if len(countsA) != len(countsB) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(countsA), len(countsB))
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSignificance, alpha)
	}
	if minSupport <= 0 {
		minSupport = DefaultMinSupport
	}

	totalA, totalB := 0, 0
	for i := range countsA {
		totalA += countsA[i]
		totalB += countsB[i]
	}
	if totalA < minSupport || totalB < minSupport {
		return nil, fmt.Errorf("%w: totals %d and %d below floor %d",
			ErrInsufficientSupport, totalA, totalB, minSupport)
	}

	// Contingency table over columns with nonzero combined support.
	cols := 0
	statistic := 0.0
	grand := float64(totalA + totalB)
	for i := range countsA {
		colTotal := countsA[i] + countsB[i]
		if colTotal == 0 {
			continue
		}
		cols++
		expA := float64(totalA) * float64(colTotal) / grand
		expB := float64(totalB) * float64(colTotal) / grand
		dA := float64(countsA[i]) - expA
		dB := float64(countsB[i]) - expB
		statistic += dA * dA / expA
		statistic += dB * dB / expB
	}

	dof := cols - 1
	result := &Result{
		Statistic:         statistic,
		DegreesOfFreedom:  dof,
		SignificanceLevel: alpha,
	}
	if dof <= 0 {
		// Single shared category: identical by construction.
		result.PValue = 1
		result.Outcome = Equivalent
		return result, nil
	}

	dist := distuv.ChiSquared{K: float64(dof)}
	result.PValue = dist.Survival(statistic)
	if result.PValue >= alpha {
		result.Outcome = Equivalent
	} else {
		result.Outcome = Distinguishable
	}
	return result, nil
}

// Compare is the refinement-facing wrapper around Homogeneity.
//
// It maps ErrInsufficientSupport to Indeterminate so the refinement loop
// and determinizer can branch on a single tagged outcome. Any other error
// indicates a programming error in the caller and is reported as
// Indeterminate as well, which is the conservative direction (no split).
func Compare(countsA, countsB []int, alpha float64, minSupport int) Outcome {
	r, err := Homogeneity(countsA, countsB, alpha, minSupport)
	if err != nil {
		return Indeterminate
	}
	return r.Outcome
}
