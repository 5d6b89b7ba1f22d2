// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tree

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/AleutianAI/Epsilon/services/cssr/alphabet"
)

func encode(t *testing.T, raw []int) (int, []alphabet.Symbol) {
	t.Helper()
	a, seq, err := alphabet.Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	return a.Size(), seq
}

func TestBuild_RootCounts(t *testing.T) {
	k, seq := encode(t, []int{0, 1, 0, 0, 1})
	tr, err := Build(context.Background(), seq, k, 2)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	root := tr.Node(tr.Root())
	if root.Total != len(seq) {
		t.Errorf("root Total = %d, want %d", root.Total, len(seq))
	}
	if !reflect.DeepEqual(root.Counts, []int{3, 2}) {
		t.Errorf("root Counts = %v, want [3 2]", root.Counts)
	}
}

func TestBuild_CountConservationPerDepth(t *testing.T) {
	// Positions with at least L symbols of past contribute to exactly one
	// depth-L node, so totals at depth L must sum to seqLen-L.
	raw := []int{0, 1, 1, 0, 1, 0, 0, 1, 1, 0, 1, 1, 0, 0, 1, 0}
	k, seq := encode(t, raw)
	maxHistory := 3
	tr, err := Build(context.Background(), seq, k, maxHistory)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	for depth := 0; depth <= maxHistory; depth++ {
		sum := 0
		for _, id := range tr.NodesAtDepth(depth) {
			sum += tr.Node(id).Total
		}
		if want := len(seq) - depth; sum != want {
			t.Errorf("depth %d totals sum = %d, want %d", depth, sum, want)
		}
	}
}

func TestBuild_InsufficientData(t *testing.T) {
	k, seq := encode(t, []int{0, 1, 0})
	_, err := Build(context.Background(), seq, k, 3)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Build() error = %v, want ErrInsufficientData", err)
	}
}

func TestBuild_InvalidAlphabet(t *testing.T) {
	_, err := Build(context.Background(), []alphabet.Symbol{0, 0, 0}, 0, 1)
	if !errors.Is(err, ErrInvalidAlphabet) {
		t.Errorf("Build() error = %v, want ErrInvalidAlphabet", err)
	}
}

func TestBuild_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	k, seq := encode(t, []int{0, 1, 0, 1, 0})
	_, err := Build(ctx, seq, k, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	raw := []int{2, 0, 1, 2, 2, 0, 1, 0, 2, 1, 1, 0}
	k, seq := encode(t, raw)

	a, err := Build(context.Background(), seq, k, 3)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	b, err := Build(context.Background(), seq, k, 3)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if a.Len() != b.Len() {
		t.Fatalf("node counts differ: %d vs %d", a.Len(), b.Len())
	}
	for id := NodeID(0); id < NodeID(a.Len()); id++ {
		na, nb := a.Node(id), b.Node(id)
		if !reflect.DeepEqual(na.Counts, nb.Counts) || na.Parent != nb.Parent || na.Symbol != nb.Symbol {
			t.Fatalf("node %d differs between builds", id)
		}
	}
}

func TestHistory_LookupRoundTrip(t *testing.T) {
	raw := []int{0, 1, 1, 0, 1, 0, 0, 1}
	k, seq := encode(t, raw)
	tr, err := Build(context.Background(), seq, k, 3)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	for id := NodeID(0); id < NodeID(tr.Len()); id++ {
		h := tr.History(id)
		if len(h) != tr.Node(id).Depth {
			t.Fatalf("node %d: history length %d, depth %d", id, len(h), tr.Node(id).Depth)
		}
		got, ok := tr.Lookup(h)
		if !ok || got != id {
			t.Errorf("Lookup(History(%d)) = (%d, %v), want (%d, true)", id, got, ok, id)
		}
	}
}

func TestLookup_UnobservedHistory(t *testing.T) {
	// 0,0 never occurs in an alternating sequence.
	k, seq := encode(t, []int{0, 1, 0, 1, 0, 1})
	tr, err := Build(context.Background(), seq, k, 2)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if _, ok := tr.Lookup([]alphabet.Symbol{0, 0}); ok {
		t.Error("Lookup([0 0]) found a history absent from the data")
	}
}

func TestSuccessor(t *testing.T) {
	k, seq := encode(t, []int{0, 1, 0, 0, 1, 0})
	tr, err := Build(context.Background(), seq, k, 2)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// From history [1], emitting 0 reaches [1 0].
	from, ok := tr.Lookup([]alphabet.Symbol{1})
	if !ok {
		t.Fatal("history [1] not found")
	}
	succ, ok := tr.Successor(from, 0)
	if !ok {
		t.Fatal("Successor([1], 0) not found")
	}
	if got := tr.History(succ); !reflect.DeepEqual(got, []alphabet.Symbol{1, 0}) {
		t.Errorf("successor history = %v, want [1 0]", got)
	}
}

func TestSuccessor_TruncatesToMaxHistory(t *testing.T) {
	k, seq := encode(t, []int{0, 1, 0, 1, 0, 1, 0, 1})
	tr, err := Build(context.Background(), seq, k, 2)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// From the depth-2 history [0 1], emitting 0 must land on [1 0], not a
	// depth-3 history.
	from, ok := tr.Lookup([]alphabet.Symbol{0, 1})
	if !ok {
		t.Fatal("history [0 1] not found")
	}
	succ, ok := tr.Successor(from, 0)
	if !ok {
		t.Fatal("Successor([0 1], 0) not found")
	}
	if got := tr.Node(succ).Depth; got != 2 {
		t.Errorf("successor depth = %d, want 2", got)
	}
	if got := tr.History(succ); !reflect.DeepEqual(got, []alphabet.Symbol{1, 0}) {
		t.Errorf("successor history = %v, want [1 0]", got)
	}
}

func TestSuccessor_Unobserved(t *testing.T) {
	k, seq := encode(t, []int{0, 1, 0, 1, 0, 1})
	tr, err := Build(context.Background(), seq, k, 2)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// [1] followed by 1 would need history [1 1], absent from alternation.
	from, ok := tr.Lookup([]alphabet.Symbol{1})
	if !ok {
		t.Fatal("history [1] not found")
	}
	if _, ok := tr.Successor(from, 1); ok {
		t.Error("Successor([1], 1) found an unobserved extension")
	}
}
