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

import (
	"fmt"

	"github.com/AleutianAI/Epsilon/services/cssr/stats"
)

// Default option values.
const (
	// DefaultMaxHistory is the default longest history length considered.
	DefaultMaxHistory = 10

	// DefaultAlpha is the default significance level for the
	// distinguishability test.
	DefaultAlpha = 0.05

	// DefaultMinSupport is the minimum observation count a history needs
	// to participate in statistical testing. Histories below the floor
	// passively inherit their suffix parent's state.
	DefaultMinSupport = stats.DefaultMinSupport

	// DefaultMaxPasses bounds the inner fixed-point loops of both the
	// refinement homogenization step and the determinizer. Exceeding the
	// bound is reported as ErrNonConvergence, never silently truncated.
	DefaultMaxPasses = 100
)

// Options configures one inference run.
type Options struct {
	// MaxHistory is the longest history length to consider. Must be
	// positive. Default: 10.
	MaxHistory int `json:"max_history" yaml:"max_history"`

	// Alpha is the significance level in (0, 1) for the chi-square
	// homogeneity test. Default: 0.05.
	Alpha float64 `json:"alpha" yaml:"alpha"`

	// MinSupport is the minimum sample count per distribution for a
	// valid test. Default: 5.
	MinSupport int `json:"min_support" yaml:"min_support"`

	// MaxPasses bounds each fixed-point loop. Default: 100.
	MaxPasses int `json:"max_passes" yaml:"max_passes"`

	// Workers is the shard count for parallel tree construction.
	// Zero or one selects the sequential builder.
	Workers int `json:"workers,omitempty" yaml:"workers"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() *Options {
	return &Options{
		MaxHistory: DefaultMaxHistory,
		Alpha:      DefaultAlpha,
		MinSupport: DefaultMinSupport,
		MaxPasses:  DefaultMaxPasses,
	}
}

// Validate checks hard constraints and applies defaults to zero-valued
// soft fields.
//
// Outputs:
//
//	error - Wraps ErrInvalidConfiguration when MaxHistory is not positive
//	  or Alpha is outside (0, 1). Alpha of exactly zero is treated as
//	  unset and defaulted.
func (o *Options) Validate() error {
	if o.MaxHistory <= 0 {
		return fmt.Errorf("%w: max history must be positive, got %d", ErrInvalidConfiguration, o.MaxHistory)
	}
	if o.Alpha == 0 {
		o.Alpha = DefaultAlpha
	}
	if o.Alpha <= 0 || o.Alpha >= 1 {
		return fmt.Errorf("%w: alpha must be in (0, 1), got %g", ErrInvalidConfiguration, o.Alpha)
	}
	if o.MinSupport <= 0 {
		o.MinSupport = DefaultMinSupport
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	if o.Workers < 0 {
		o.Workers = 0
	}
	return nil
}
