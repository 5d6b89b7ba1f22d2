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

	"github.com/AleutianAI/Epsilon/services/cssr/partition"
	"github.com/AleutianAI/Epsilon/services/cssr/stats"
	"github.com/AleutianAI/Epsilon/services/cssr/tree"
)

// RefineResult summarizes the refinement loop.
type RefineResult struct {
	// Splits is the number of states created beyond the initial one.
	Splits int `json:"splits"`

	// Passes is the total number of homogenization passes across all
	// history lengths.
	Passes int `json:"passes"`

	// Converged is true when every length reached its inner fixed point
	// within the pass bound. Refine never returns a result with
	// Converged false; a blown bound is an error instead.
	Converged bool `json:"converged"`
}

// Refine partitions the tree's histories into causal states.
//
// Description:
//
//	Implements the state-splitting reconstruction sweep. All histories of
//	length zero and one start in a single state. For each history length
//	L in increasing order, every length-L history is tested against the
//	state of its one-symbol-shorter suffix (its default candidate); on
//	rejection it is tested against every other state in creation order
//	and joins the first equivalent one, or founds a new state. After each
//	length, membership is re-homogenized to an inner fixed point: any
//	member no longer compatible with the rest of its state is moved out
//	and reassigned by the same rule.
//
//	Histories with insufficient support never trigger a split; they
//	inherit their suffix parent's state passively.
//
// Inputs:
//
//	ctx - Context checked at loop boundaries for cancellation.
//	t - The built history tree. Node state fields are mutated.
//	p - An empty partition; populated by this call.
//	opts - Validated options.
//
// Outputs:
//
//	*RefineResult - Loop statistics.
//	error - ErrNonConvergence when a homogenization fixed point is not
//	  reached within opts.MaxPasses, or the context error if cancelled.
//	  No partial result accompanies an error.
func Refine(ctx context.Context, t *tree.Tree, p *partition.Partition, opts *Options) (*RefineResult, error) {
	ctx, span := inferTracer.Start(ctx, "infer.Refine")
	defer span.End()

	result := &RefineResult{}

	initial := p.NewState()
	p.Assign(t, t.Root(), initial)
	for _, id := range t.NodesAtDepth(1) {
		p.Assign(t, id, initial)
	}

	for l := 1; l <= t.MaxHistory(); l++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, id := range t.NodesAtDepth(l) {
			assign(t, p, id, opts, result)
		}

		if err := homogenize(ctx, t, p, opts, l, result); err != nil {
			return nil, err
		}

		slog.Debug("Refined history length",
			"length", l, "states", p.Len(), "splits", result.Splits)
	}

	result.Converged = true
	span.SetAttributes(
		attribute.Int("states", p.Len()),
		attribute.Int("splits", result.Splits),
		attribute.Int("passes", result.Passes),
	)
	return result, nil
}

// assign places one history in a state per the splitting rule: suffix
// parent's state first, then every other state in creation order, then a
// fresh state.
func assign(t *tree.Tree, p *partition.Partition, id tree.NodeID, opts *Options, result *RefineResult) {
	n := t.Node(id)

	candidate := candidateState(t, p, id)
	if candidate == nil {
		// Suffix parent lost its state to an earlier reassignment in
		// this pass; treat the node as unanchored and test it against
		// everything.
		candidate = firstEquivalent(t, p, id, nil, opts)
		if candidate == nil {
			if n.Total < opts.MinSupport {
				// Cannot test and nothing to inherit: park it in the
				// oldest state rather than splitting on no evidence.
				states := p.States()
				p.Assign(t, id, states[0])
				return
			}
			result.Splits++
			candidate = p.NewState()
		}
		p.Assign(t, id, candidate)
		return
	}

	// Below the support floor the history cannot be tested; it inherits
	// the candidate without a vote.
	if n.Total < opts.MinSupport {
		p.Assign(t, id, candidate)
		return
	}

	// Detach before testing so a member is compared against the rest of
	// its own state, not against an aggregate it dominates.
	wasMember := candidate.Contains(id)
	if wasMember {
		p.Detach(t, id)
	}

	if outcomeAgainst(n, candidate, opts) != stats.Distinguishable {
		p.Assign(t, id, candidate)
		return
	}

	if s := firstEquivalent(t, p, id, candidate, opts); s != nil {
		p.Assign(t, id, s)
		return
	}

	result.Splits++
	p.Assign(t, id, p.NewState())
}

// candidateState returns the state of the node's suffix parent, the
// default it inherits. Nil when the parent is unassigned.
func candidateState(t *tree.Tree, p *partition.Partition, id tree.NodeID) *partition.State {
	parent := t.Node(id).Parent
	if parent == tree.None {
		return nil
	}
	sid := t.Node(parent).State
	if sid == tree.Unassigned {
		return nil
	}
	s, ok := p.Get(sid)
	if !ok {
		return nil
	}
	return s
}

// firstEquivalent scans states in creation order and returns the first
// one the node's distribution is equivalent to, skipping exclude.
func firstEquivalent(t *tree.Tree, p *partition.Partition, id tree.NodeID, exclude *partition.State, opts *Options) *partition.State {
	n := t.Node(id)
	for _, s := range p.States() {
		if s == exclude || s.Size() == 0 {
			continue
		}
		if stats.Compare(n.Counts, s.Counts(), opts.Alpha, opts.MinSupport) == stats.Equivalent {
			return s
		}
	}
	return nil
}

// outcomeAgainst tests a detached node against a state's aggregate.
func outcomeAgainst(n *tree.Node, s *partition.State, opts *Options) stats.Outcome {
	if s.Size() == 0 || s.Total() == 0 {
		// An empty candidate cannot reject anything.
		return stats.Indeterminate
	}
	return stats.Compare(n.Counts, s.Counts(), opts.Alpha, opts.MinSupport)
}

// homogenize re-tests membership at the current length until no node
// moves, bounded by opts.MaxPasses.
func homogenize(ctx context.Context, t *tree.Tree, p *partition.Partition, opts *Options, length int, result *RefineResult) error {
	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if pass > opts.MaxPasses {
			return fmt.Errorf("%w: %d states after %d homogenization passes at history length %d",
				ErrNonConvergence, p.Len(), opts.MaxPasses, length)
		}
		result.Passes++

		moved := 0
		for _, s := range p.States() {
			for _, id := range s.Members() {
				if !s.Contains(id) {
					// Moved earlier in this pass.
					continue
				}
				n := t.Node(id)
				if n.Total < opts.MinSupport {
					continue
				}
				rest, restTotal := s.CountsWithout(n.Counts)
				if restTotal == 0 {
					// Sole effective member; nothing to disagree with.
					continue
				}
				if stats.Compare(n.Counts, rest, opts.Alpha, opts.MinSupport) != stats.Distinguishable {
					continue
				}
				p.Detach(t, id)
				reassign(t, p, id, s, opts, result)
				moved++
			}
		}
		if moved == 0 {
			return nil
		}
		slog.Debug("Homogenization pass moved members",
			"length", length, "pass", pass, "moved", moved)
	}
}

// reassign applies the splitting rule to a node evicted from prior.
func reassign(t *tree.Tree, p *partition.Partition, id tree.NodeID, prior *partition.State, opts *Options, result *RefineResult) {
	if s := firstEquivalent(t, p, id, prior, opts); s != nil {
		p.Assign(t, id, s)
		return
	}
	result.Splits++
	p.Assign(t, id, p.NewState())
}
