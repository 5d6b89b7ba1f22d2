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
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/Epsilon/services/cssr/alphabet"
	"github.com/AleutianAI/Epsilon/services/cssr/partition"
	"github.com/AleutianAI/Epsilon/services/cssr/tree"
)

// DeterminizeResult summarizes the determinization pass.
type DeterminizeResult struct {
	// Splits is the number of states created to restore unifilarity.
	Splits int `json:"splits"`

	// Removed is the number of states discarded as transient or as
	// unreachable from the initial state.
	Removed int `json:"removed"`

	// Passes is the number of sweeps over the partition.
	Passes int `json:"passes"`

	// InitialState is the id of the machine's start state: the empty
	// history's state when it survives pruning, otherwise the oldest
	// recurrent state.
	InitialState int `json:"initial_state"`
}

// Determinize splits states until every (state, symbol) pair has a unique
// successor, fills in the transition tables, and prunes transient and
// unreachable states.
//
// Description:
//
//	After refinement, a state may hold histories whose one-symbol
//	extensions land in different states for the same symbol. Each sweep
//	groups every state's members by the state of their successor history
//	and splits off every group beyond the first, in the style of DFA
//	refinement but splitting for determinism rather than merging for
//	minimality. Sweeps repeat until stable, bounded by opts.MaxPasses.
//
//	The resulting graph still contains transient states the process
//	passes through once and never revisits, the empty history's state
//	among them for most sources. Those are removed so only the recurrent
//	machine remains; the start state is re-anchored when its state was
//	transient.
//
// Inputs:
//
//	ctx - Context checked at sweep boundaries for cancellation.
//	t - The history tree refined by Refine.
//	p - The refined partition. Mutated into its final form.
//	opts - Validated options.
//
// Outputs:
//
//	*DeterminizeResult - Pass statistics and the initial state id.
//	error - ErrNonConvergence when no fixed point is reached within
//	  opts.MaxPasses, or the context error if cancelled.
func Determinize(ctx context.Context, t *tree.Tree, p *partition.Partition, opts *Options) (*DeterminizeResult, error) {
	ctx, span := inferTracer.Start(ctx, "infer.Determinize")
	defer span.End()

	result := &DeterminizeResult{}

	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pass > opts.MaxPasses {
			return nil, fmt.Errorf("%w: %d states after %d determinization passes",
				ErrNonConvergence, p.Len(), opts.MaxPasses)
		}
		result.Passes = pass

		split := 0
		for _, s := range p.States() {
			for sym := 0; sym < t.K(); sym++ {
				split += splitBySuccessor(t, p, s, alphabet.Symbol(sym))
			}
		}
		if split == 0 {
			break
		}
		result.Splits += split
		slog.Debug("Determinization pass split states", "pass", pass, "splits", split)
	}

	fillTransitions(t, p)

	initial := t.Node(t.Root()).State
	result.Removed = pruneTransient(p)
	if _, ok := p.Get(initial); !ok {
		// The empty history's state was transient; restart the machine
		// at the oldest recurrent state.
		initial = p.States()[0].ID()
	}
	result.InitialState = initial
	result.Removed += pruneUnreachable(p, initial)

	span.SetAttributes(
		attribute.Int("states", p.Len()),
		attribute.Int("splits", result.Splits),
		attribute.Int("removed", result.Removed),
	)
	return result, nil
}

// splitBySuccessor groups a state's members by the state their successor
// history on sym belongs to, and moves every group beyond the first into
// a fresh state. Members with no observed successor stay put. Returns the
// number of states created.
func splitBySuccessor(t *tree.Tree, p *partition.Partition, s *partition.State, sym alphabet.Symbol) int {
	groups := make(map[int][]tree.NodeID)
	var order []int
	for _, id := range s.Members() {
		succ, ok := t.Successor(id, sym)
		if !ok {
			continue
		}
		target := t.Node(succ).State
		if target == tree.Unassigned {
			continue
		}
		if _, seen := groups[target]; !seen {
			order = append(order, target)
		}
		groups[target] = append(groups[target], id)
	}
	if len(order) <= 1 {
		return 0
	}
	created := 0
	for _, target := range order[1:] {
		ns := p.NewState()
		for _, id := range groups[target] {
			p.Assign(t, id, ns)
		}
		created++
	}
	return created
}

// fillTransitions computes each state's symbol-to-state transition table
// from any member's successor; after the fixed point, all members agree.
func fillTransitions(t *tree.Tree, p *partition.Partition) {
	for _, s := range p.States() {
		for sym := 0; sym < t.K(); sym++ {
			s.SetTransition(sym, partition.NoTransition)
			for _, id := range s.Members() {
				succ, ok := t.Successor(id, alphabet.Symbol(sym))
				if !ok {
					continue
				}
				if target := t.Node(succ).State; target != tree.Unassigned {
					s.SetTransition(sym, target)
					break
				}
			}
		}
	}
}

// pruneTransient removes states no state transitions into. Removing one
// can strand another, so the sweep repeats to a fixed point; what remains
// is the recurrent part of the machine. A target of a surviving state is
// itself a survivor, so no transition is left dangling. Returns the
// number removed.
func pruneTransient(p *partition.Partition) int {
	removed := 0
	for {
		entered := make(map[int]bool, p.Len())
		for _, s := range p.States() {
			for _, target := range s.Transitions() {
				if target != partition.NoTransition {
					entered[target] = true
				}
			}
		}
		if len(entered) == 0 {
			// No transitions at all; nothing to anchor recurrence on.
			return removed
		}
		dropped := 0
		for _, s := range p.States() {
			if entered[s.ID()] {
				continue
			}
			p.Remove(s.ID())
			dropped++
		}
		if dropped == 0 {
			return removed
		}
		removed += dropped
	}
}

// pruneUnreachable removes states not reachable from the initial state
// via transitions. Returns the number removed.
func pruneUnreachable(p *partition.Partition, initial int) int {
	reachable := map[int]bool{initial: true}
	frontier := []int{initial}
	for len(frontier) > 0 {
		sid := frontier[0]
		frontier = frontier[1:]
		s, ok := p.Get(sid)
		if !ok {
			continue
		}
		for _, target := range s.Transitions() {
			if target == partition.NoTransition || reachable[target] {
				continue
			}
			reachable[target] = true
			frontier = append(frontier, target)
		}
	}

	removed := 0
	for _, s := range p.States() {
		if !reachable[s.ID()] {
			p.Remove(s.ID())
			removed++
		}
	}
	return removed
}
