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
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/Epsilon/services/cssr/infer"
)

// TextFormatter renders a model as a human-readable report.
type TextFormatter struct{}

// Format renders the state count, then each state's distribution and
// transitions in symbol order.
func (f *TextFormatter) Format(m *infer.Model) (string, error) {
	if m == nil {
		return "", ErrNilModel
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Number of causal states: %d\n", len(m.States))
	fmt.Fprintf(&b, "Alphabet: %v\n", m.Alphabet)
	fmt.Fprintf(&b, "Initial state: %d\n", m.InitialState)

	for i := range m.States {
		s := &m.States[i]
		fmt.Fprintf(&b, "\nState %d (%d histories):\n", s.ID, s.Histories)
		for _, sym := range sortedKeys(s.Distribution) {
			line := fmt.Sprintf("  P(%d) = %.4f", sym, s.Distribution[sym])
			if target, ok := s.Transitions[sym]; ok {
				line += fmt.Sprintf("  -> state %d", target)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String(), nil
}

// Name returns the format name.
func (f *TextFormatter) Name() FormatType {
	return FormatText
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
