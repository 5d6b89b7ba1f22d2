// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package infer

import "errors"

// Sentinel errors for the inference engine.
var (
	// ErrInvalidConfiguration is returned when options fail validation
	// (alpha outside (0,1), non-positive max history). Rejected before
	// any computation starts.
	ErrInvalidConfiguration = errors.New("invalid inference configuration")

	// ErrNonConvergence is returned when the refinement loop or the
	// determinizer fails to reach a fixed point within the bounded pass
	// limit. The wrapped message carries the current partition size for
	// diagnostics; no partial model is produced.
	ErrNonConvergence = errors.New("fixed point not reached within pass limit")
)
