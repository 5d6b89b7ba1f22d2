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

import "errors"

// Sentinel errors for the equivalence tester.
var (
	// ErrInsufficientSupport indicates a distribution's total count is
	// below the minimum sample-size floor, where the chi-square
	// approximation is invalid. Callers treat this as "indeterminate,
	// do not split"; it is never surfaced to the end user.
	ErrInsufficientSupport = errors.New("insufficient support for chi-square test")

	// ErrDimensionMismatch indicates the two frequency vectors have
	// different lengths.
	ErrDimensionMismatch = errors.New("frequency vectors have different lengths")

	// ErrInvalidSignificance indicates alpha is outside (0, 1).
	ErrInvalidSignificance = errors.New("significance level must be in (0, 1)")
)
