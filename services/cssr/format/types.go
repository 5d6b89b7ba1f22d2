// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package format renders inferred models into output representations.
package format

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/Epsilon/services/cssr/infer"
)

// FormatType represents the type of output format.
type FormatType string

const (
	// FormatText is the human-readable report (default).
	FormatText FormatType = "text"

	// FormatJSON is full JSON output.
	FormatJSON FormatType = "json"

	// FormatDOT is a Graphviz digraph of the state machine.
	FormatDOT FormatType = "dot"
)

// ErrUnknownFormat is returned for format names New does not recognize.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrNilModel is returned when a formatter receives a nil model.
var ErrNilModel = errors.New("model is nil")

// Formatter renders a model into one output representation.
type Formatter interface {
	// Format converts the model to a formatted string.
	Format(m *infer.Model) (string, error)

	// Name returns the format name.
	Name() FormatType
}

// New returns the formatter for a format name.
func New(t FormatType) (Formatter, error) {
	switch t {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatDOT:
		return &DOTFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, t)
	}
}
