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
	"github.com/AleutianAI/Epsilon/services/cssr/alphabet"
	"github.com/AleutianAI/Epsilon/services/cssr/partition"
)

// Model is the emitted epsilon-machine: the final causal states, their
// next-symbol distributions, and the transition table. Read-only once
// produced.
type Model struct {
	// Alphabet holds the raw symbol values in ascending order.
	Alphabet []int `json:"alphabet"`

	// States lists the causal states in first-discovery order.
	States []ModelState `json:"states"`

	// InitialState is the id of the machine's start state, as selected
	// by determinization.
	InitialState int `json:"initial_state"`
}

// ModelState is one causal state of the emitted model.
type ModelState struct {
	// ID is the state's stable identifier from the run.
	ID int `json:"id"`

	// Distribution maps raw symbol values to next-symbol probabilities.
	// Symbols with zero probability are omitted.
	Distribution map[int]float64 `json:"distribution"`

	// Transitions maps raw symbol values to successor state ids. Symbols
	// the state never emits are omitted.
	Transitions map[int]int `json:"transitions"`

	// Histories is the number of history-tree nodes the state absorbed.
	Histories int `json:"histories"`
}

// StateByID returns the model state with the given id.
func (m *Model) StateByID(id int) (*ModelState, bool) {
	for i := range m.States {
		if m.States[i].ID == id {
			return &m.States[i], true
		}
	}
	return nil, false
}

// Emit assembles the final model from a determinized partition.
//
// Description:
//
//	Pure read-only traversal: states are listed in creation order, each
//	with its aggregate distribution normalized to probabilities and its
//	transition table translated back to raw symbol values. The partition
//	is not modified and can be discarded afterwards.
//
// Inputs:
//
//	a - The resolved alphabet, for dense-code translation.
//	p - The determinized partition.
//	initial - The initial state id from Determinize.
//
// Outputs:
//
//	*Model - The assembled model. Never nil.
func Emit(a *alphabet.Alphabet, p *partition.Partition, initial int) *Model {
	m := &Model{
		Alphabet:     a.Symbols(),
		InitialState: initial,
	}
	for _, s := range p.States() {
		ms := ModelState{
			ID:           s.ID(),
			Distribution: make(map[int]float64),
			Transitions:  make(map[int]int),
			Histories:    s.Size(),
		}
		total := float64(s.Total())
		counts := s.Counts()
		for sym, c := range counts {
			if c == 0 {
				continue
			}
			raw := a.Decode(alphabet.Symbol(sym))
			ms.Distribution[raw] = float64(c) / total
			if target := s.Transition(sym); target != partition.NoTransition {
				ms.Transitions[raw] = target
			}
		}
		m.States = append(m.States, ms)
	}
	return m
}
