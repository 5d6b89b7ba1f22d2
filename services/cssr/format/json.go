// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package format

import (
	"encoding/json"

	"github.com/AleutianAI/Epsilon/services/cssr/infer"
)

// JSONFormatter renders a model as JSON.
type JSONFormatter struct {
	indent bool
}

// NewJSONFormatter creates a JSON formatter with indentation.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{indent: true}
}

// NewJSONFormatterCompact creates a JSON formatter without indentation.
func NewJSONFormatterCompact() *JSONFormatter {
	return &JSONFormatter{indent: false}
}

// Format converts the model to a JSON string.
func (f *JSONFormatter) Format(m *infer.Model) (string, error) {
	if m == nil {
		return "", ErrNilModel
	}

	var data []byte
	var err error
	if f.indent {
		data, err = json.MarshalIndent(m, "", "  ")
	} else {
		data, err = json.Marshal(m)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Name returns the format name.
func (f *JSONFormatter) Name() FormatType {
	return FormatJSON
}
