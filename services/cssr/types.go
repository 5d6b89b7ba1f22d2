// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cssr

import (
	"time"

	"github.com/AleutianAI/Epsilon/services/cssr/infer"
)

// ServiceVersion is the epsilon service version.
const ServiceVersion = "0.1.0"

// InferRequest is the request body for POST /v1/cssr/infer.
type InferRequest struct {
	// Sequence is the symbol sequence, one non-negative integer per
	// time step.
	Sequence []int `json:"sequence" binding:"required,min=2"`

	// MaxHistory is the longest history length to consider.
	// Zero selects the default.
	MaxHistory int `json:"max_history" binding:"omitempty,min=1"`

	// Alpha is the significance level in (0, 1). Zero selects the
	// default.
	Alpha float64 `json:"alpha" binding:"omitempty,gt=0,lt=1"`

	// MinSupport is the minimum sample count for a valid test. Zero
	// selects the default.
	MinSupport int `json:"min_support" binding:"omitempty,min=1"`

	// Save persists the resulting model to the model store.
	Save bool `json:"save"`
}

// InferResponse is the response body for POST /v1/cssr/infer.
type InferResponse struct {
	// RunID identifies this run; the model is stored under it when Save
	// was requested.
	RunID string `json:"run_id"`

	// States is the final causal state count.
	States int `json:"states"`

	// AlphabetSize is the number of distinct symbols observed.
	AlphabetSize int `json:"alphabet_size"`

	// DurationMS is the wall-clock inference time in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Saved reports whether the model was persisted.
	Saved bool `json:"saved"`

	// Model is the inferred epsilon-machine.
	Model *infer.Model `json:"model"`
}

// RunSummary describes one completed inference run.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	CreatedAt time.Time     `json:"created_at"`
	Source    string        `json:"source"`
	States    int           `json:"states"`
	Sequence  int           `json:"sequence_length"`
	Duration  time.Duration `json:"duration"`
}

// HealthResponse is the response body for GET /v1/cssr/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Store   bool   `json:"store"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`

	// Code is the machine-readable error code.
	Code string `json:"code"`
}
