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
	"errors"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxHistory != DefaultMaxHistory {
		t.Errorf("MaxHistory = %d, want %d", opts.MaxHistory, DefaultMaxHistory)
	}
	if opts.Alpha != DefaultAlpha {
		t.Errorf("Alpha = %g, want %g", opts.Alpha, DefaultAlpha)
	}
	if opts.MinSupport != DefaultMinSupport {
		t.Errorf("MinSupport = %d, want %d", opts.MinSupport, DefaultMinSupport)
	}
	if opts.MaxPasses != DefaultMaxPasses {
		t.Errorf("MaxPasses = %d, want %d", opts.MaxPasses, DefaultMaxPasses)
	}
	if err := opts.Validate(); err != nil {
		t.Fatalf("default options failed validation: %v", err)
	}
}

func TestOptionsValidate_Defaults(t *testing.T) {
	opts := &Options{MaxHistory: 4}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if opts.Alpha != DefaultAlpha {
		t.Errorf("zero alpha not defaulted: %g", opts.Alpha)
	}
	if opts.MinSupport != DefaultMinSupport {
		t.Errorf("zero min support not defaulted: %d", opts.MinSupport)
	}
	if opts.MaxPasses != DefaultMaxPasses {
		t.Errorf("zero max passes not defaulted: %d", opts.MaxPasses)
	}
	if opts.Workers != 0 {
		t.Errorf("Workers = %d, want 0", opts.Workers)
	}
}

func TestOptionsValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		opts Options
	}{
		{"zero max history", Options{MaxHistory: 0}},
		{"negative max history", Options{MaxHistory: -3}},
		{"negative alpha", Options{MaxHistory: 4, Alpha: -0.05}},
		{"alpha of one", Options{MaxHistory: 4, Alpha: 1.0}},
		{"alpha above one", Options{MaxHistory: 4, Alpha: 1.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("Validate = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestOptionsValidate_NegativeWorkersClamped(t *testing.T) {
	opts := &Options{MaxHistory: 4, Workers: -2}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if opts.Workers != 0 {
		t.Errorf("Workers = %d, want 0", opts.Workers)
	}
}
