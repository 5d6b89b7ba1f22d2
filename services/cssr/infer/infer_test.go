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
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/AleutianAI/Epsilon/services/cssr/alphabet"
	"github.com/AleutianAI/Epsilon/services/cssr/tree"
)

func TestRun_AlternatingProcess(t *testing.T) {
	opts := testOptions(t, 3)
	res, err := Run(context.Background(), alternatingSeq(1000), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The mixed empty-history state is transient; only the two recurrent
	// states that alternate forever remain.
	if res.States != 2 {
		t.Fatalf("States = %d, want 2", res.States)
	}
	if res.AlphabetSize != 2 {
		t.Errorf("AlphabetSize = %d, want 2", res.AlphabetSize)
	}
	// Root plus one node per depth and parity: [0],[1],[0 1],[1 0],
	// [0 1 0],[1 0 1].
	if res.Histories != 7 {
		t.Errorf("Histories = %d, want 7", res.Histories)
	}
	if res.Duration <= 0 {
		t.Errorf("Duration = %v, want positive", res.Duration)
	}
	if !res.Refine.Converged {
		t.Error("Refine.Converged = false")
	}
	if res.Determinize.Removed != 1 {
		t.Errorf("Determinize.Removed = %d, want 1", res.Determinize.Removed)
	}

	m := res.Model
	a, ok := m.StateByID(m.InitialState)
	if !ok {
		t.Fatalf("initial state %d missing from model", m.InitialState)
	}

	// After a 0 the next symbol is always 1, and vice versa.
	if a.Distribution[1] != 1.0 || len(a.Distribution) != 1 {
		t.Errorf("initial distribution = %v, want {1: 1}", a.Distribution)
	}
	bID, ok := a.Transitions[1]
	if !ok {
		t.Fatal("initial state has no transition on 1")
	}
	b, ok := m.StateByID(bID)
	if !ok {
		t.Fatalf("transition target %d missing from model", bID)
	}
	if b.Distribution[0] != 1.0 || len(b.Distribution) != 1 {
		t.Errorf("state after 1 distribution = %v, want {0: 1}", b.Distribution)
	}
	if got := b.Transitions[0]; got != a.ID {
		t.Errorf("b on 0 -> %d, want %d", got, a.ID)
	}
	// Neither state ever emits its own ending symbol again.
	if _, ok := a.Transitions[0]; ok {
		t.Error("initial state has a transition on 0")
	}
}

func TestRun_UniformProcess(t *testing.T) {
	seq := repeatCycle(deBruijn(2, 4), 40, 3)
	res, err := Run(context.Background(), seq, testOptions(t, 3))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.States != 1 {
		t.Fatalf("States = %d, want 1", res.States)
	}

	s := res.Model.States[0]
	if res.Model.InitialState != s.ID {
		t.Errorf("InitialState = %d, want %d", res.Model.InitialState, s.ID)
	}
	for _, raw := range []int{0, 1} {
		if math.Abs(s.Distribution[raw]-0.5) > 0.01 {
			t.Errorf("P(%d) = %g, want ~0.5", raw, s.Distribution[raw])
		}
		if s.Transitions[raw] != s.ID {
			t.Errorf("transition on %d = %d, want self loop %d", raw, s.Transitions[raw], s.ID)
		}
	}
}

// An i.i.d. three-symbol source collapses to a single state the same way
// a binary one does.
func TestRun_UniformThreeSymbolProcess(t *testing.T) {
	seq := repeatCycle(deBruijn(3, 4), 10, 3)
	res, err := Run(context.Background(), seq, testOptions(t, 3))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.States != 1 {
		t.Fatalf("States = %d, want 1", res.States)
	}
	if res.AlphabetSize != 3 {
		t.Errorf("AlphabetSize = %d, want 3", res.AlphabetSize)
	}

	s := res.Model.States[0]
	if res.Model.InitialState != s.ID {
		t.Errorf("InitialState = %d, want %d", res.Model.InitialState, s.ID)
	}
	for _, raw := range []int{0, 1, 2} {
		if math.Abs(s.Distribution[raw]-1.0/3.0) > 0.01 {
			t.Errorf("P(%d) = %g, want ~1/3", raw, s.Distribution[raw])
		}
		if s.Transitions[raw] != s.ID {
			t.Errorf("transition on %d = %d, want self loop %d", raw, s.Transitions[raw], s.ID)
		}
	}
}

func TestRun_NilOptionsUseDefaults(t *testing.T) {
	res, err := Run(context.Background(), alternatingSeq(64), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.States != 2 {
		t.Errorf("States = %d, want 2", res.States)
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	seq := repeatCycle([]int{0, 2, 1, 2}, 64, 0)

	seqOpts := testOptions(t, 2)
	parOpts := testOptions(t, 2)
	parOpts.Workers = 4

	want, err := Run(context.Background(), seq, seqOpts)
	if err != nil {
		t.Fatalf("sequential Run: %v", err)
	}
	got, err := Run(context.Background(), seq, parOpts)
	if err != nil {
		t.Fatalf("parallel Run: %v", err)
	}

	if got.States != want.States {
		t.Fatalf("States = %d, want %d", got.States, want.States)
	}
	if !reflect.DeepEqual(got.Model, want.Model) {
		t.Errorf("parallel model diverges from sequential:\n got %+v\nwant %+v", got.Model, want.Model)
	}
}

func TestRun_Errors(t *testing.T) {
	cases := []struct {
		name string
		seq  []int
		opts *Options
		want error
	}{
		{"invalid configuration", alternatingSeq(64), &Options{MaxHistory: 0}, ErrInvalidConfiguration},
		{"empty sequence", nil, &Options{MaxHistory: 2}, alphabet.ErrEmptySequence},
		{"negative symbol", []int{0, 1, -1, 0}, &Options{MaxHistory: 2}, alphabet.ErrNegativeSymbol},
		{"insufficient data", []int{0, 1, 0, 1}, &Options{MaxHistory: 8}, tree.ErrInsufficientData},
		{"non-convergence", repeatCycle([]int{0, 2, 1, 2}, 32, 0), &Options{MaxHistory: 2, MaxPasses: 1}, ErrNonConvergence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Run(context.Background(), tc.seq, tc.opts)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Run = %v, want %v", err, tc.want)
			}
			if res != nil {
				t.Error("partial result returned with error")
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, alternatingSeq(64), testOptions(t, 2))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}
