// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package alphabet derives the symbol alphabet of a discrete time series.
//
// The inference engine works over dense symbol codes in [0, K) rather than
// raw input values. Resolve fixes the alphabet once from the observed
// sequence; all downstream components (tree, partition, model) index their
// count vectors by the dense code and translate back to raw values only at
// the model boundary.
package alphabet

import "sort"

// Symbol is a dense alphabet code in [0, Size).
//
// Symbols are assigned in ascending raw-value order, so the mapping from
// raw values to codes is deterministic for a given input sequence.
type Symbol int

// Alphabet is the fixed set of distinct symbols observed in a sequence.
//
// Immutable after Resolve. Safe for concurrent readers.
type Alphabet struct {
	symbols []int         // raw values, ascending
	index   map[int]Symbol // raw value -> dense code
	counts  []int         // occurrences per dense code
	total   int
}

// Resolve derives the alphabet from a raw symbol sequence and encodes the
// sequence into dense codes.
//
// Inputs:
//
//	sequence - Raw symbol values. Must be non-empty and non-negative.
//
// Outputs:
//
//	*Alphabet - The resolved alphabet.
//	[]Symbol - The sequence re-encoded as dense codes, same length as input.
//	error - ErrEmptySequence or ErrNegativeSymbol on invalid input.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func Resolve(sequence []int) (*Alphabet, []Symbol, error) {
	if len(sequence) == 0 {
		return nil, nil, ErrEmptySequence
	}

	seen := make(map[int]int)
	for _, v := range sequence {
		if v < 0 {
			return nil, nil, ErrNegativeSymbol
		}
		seen[v]++
	}

	raw := make([]int, 0, len(seen))
	for v := range seen {
		raw = append(raw, v)
	}
	sort.Ints(raw)

	a := &Alphabet{
		symbols: raw,
		index:   make(map[int]Symbol, len(raw)),
		counts:  make([]int, len(raw)),
		total:   len(sequence),
	}
	for code, v := range raw {
		a.index[v] = Symbol(code)
		a.counts[code] = seen[v]
	}

	encoded := make([]Symbol, len(sequence))
	for i, v := range sequence {
		encoded[i] = a.index[v]
	}
	return a, encoded, nil
}

// Size returns the number of distinct symbols.
func (a *Alphabet) Size() int {
	return len(a.symbols)
}

// Total returns the length of the sequence the alphabet was resolved from.
func (a *Alphabet) Total() int {
	return a.total
}

// Symbols returns the raw symbol values in ascending order.
//
// The returned slice is a copy and may be retained by the caller.
func (a *Alphabet) Symbols() []int {
	out := make([]int, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Decode translates a dense code back to its raw value.
//
// Panics if s is out of range; callers hold codes produced by Resolve, so
// an out-of-range code is a programming error.
func (a *Alphabet) Decode(s Symbol) int {
	return a.symbols[s]
}

// Encode translates a raw value to its dense code.
func (a *Alphabet) Encode(v int) (Symbol, bool) {
	s, ok := a.index[v]
	return s, ok
}

// Count returns how often the symbol with the given dense code occurred.
func (a *Alphabet) Count(s Symbol) int {
	return a.counts[s]
}
