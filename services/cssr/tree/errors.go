// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tree

import "errors"

// Sentinel errors for history tree construction.
var (
	// ErrInsufficientData is returned when the sequence is too short to
	// form any history of the requested length. No partial tree is
	// produced.
	ErrInsufficientData = errors.New("sequence too short for requested history length")

	// ErrInvalidAlphabet is returned when the alphabet size is not
	// positive.
	ErrInvalidAlphabet = errors.New("alphabet size must be positive")

	// ErrNoWorkers is returned by BuildParallel when the worker count is
	// not positive.
	ErrNoWorkers = errors.New("worker count must be positive")
)
