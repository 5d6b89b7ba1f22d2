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
	"strings"

	"github.com/AleutianAI/Epsilon/services/cssr/infer"
)

// DOTFormatter renders a model as a Graphviz digraph. Edges are labeled
// with the emitted symbol and its probability.
type DOTFormatter struct{}

// Format converts the model to DOT source.
func (f *DOTFormatter) Format(m *infer.Model) (string, error) {
	if m == nil {
		return "", ErrNilModel
	}

	var b strings.Builder
	b.WriteString("digraph epsilon_machine {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=circle];\n")
	fmt.Fprintf(&b, "  s%d [shape=doublecircle];\n", m.InitialState)

	for i := range m.States {
		s := &m.States[i]
		for _, sym := range sortedKeys(s.Distribution) {
			target, ok := s.Transitions[sym]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "  s%d -> s%d [label=\"%d | %.3f\"];\n",
				s.ID, target, sym, s.Distribution[sym])
		}
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// Name returns the format name.
func (f *DOTFormatter) Name() FormatType {
	return FormatDOT
}
