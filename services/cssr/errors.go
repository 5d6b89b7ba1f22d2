// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cssr exposes causal-state model inference as a service.
//
// The package wires the inference engine (services/cssr/infer) to an
// optional persistent model store and an HTTP surface. The engine itself
// performs no I/O; everything at this level is presentation and
// persistence.
package cssr

import "errors"

// Sentinel errors for the service layer.
var (
	// ErrStoreUnavailable is returned for persistence operations when
	// the service was created without a model store.
	ErrStoreUnavailable = errors.New("model store not configured")
)
