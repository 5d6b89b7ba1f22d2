// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package partition maintains the evolving set of causal states.
//
// A causal state owns a set of history-tree node ids and an aggregated
// next-symbol distribution, maintained incrementally as members move. The
// partition is built fresh per run, mutated only by the refinement loop
// and the determinizer, and discarded after model emission.
//
// # Thread Safety
//
// Partition is NOT safe for concurrent use. The algorithm is sequential
// by necessity: every test observes the membership changes made by the
// previous one.
package partition

import (
	"sort"

	"github.com/AleutianAI/Epsilon/services/cssr/tree"
)

// State is one causal state: an equivalence class of histories.
type State struct {
	id          int
	members     map[tree.NodeID]struct{}
	counts      []int
	total       int
	transitions []int // symbol -> state id, NoTransition when undefined
}

// NoTransition marks an undefined (state, symbol) transition.
const NoTransition = -1

// ID returns the stable identifier of the state, unique for the run.
func (s *State) ID() int {
	return s.id
}

// Size returns the number of member histories.
func (s *State) Size() int {
	return len(s.members)
}

// Contains reports whether the node is a member of this state.
func (s *State) Contains(id tree.NodeID) bool {
	_, ok := s.members[id]
	return ok
}

// Members returns the member node ids in ascending order. The slice is a
// snapshot; membership mutations do not affect it.
func (s *State) Members() []tree.NodeID {
	out := make([]tree.NodeID, 0, len(s.members))
	for id := range s.members {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Counts returns the aggregated next-symbol frequencies of all members.
// The returned slice is live; callers must not mutate it.
func (s *State) Counts() []int {
	return s.counts
}

// Total returns the sum of Counts.
func (s *State) Total() int {
	return s.total
}

// CountsWithout returns the aggregate distribution with one member's
// contribution removed, for testing a member against the rest of its own
// state.
func (s *State) CountsWithout(memberCounts []int) ([]int, int) {
	rest := make([]int, len(s.counts))
	restTotal := 0
	for i := range s.counts {
		rest[i] = s.counts[i] - memberCounts[i]
		restTotal += rest[i]
	}
	return rest, restTotal
}

// Transition returns the target state id for a symbol, or NoTransition.
// Populated only after determinization.
func (s *State) Transition(sym int) int {
	if s.transitions == nil {
		return NoTransition
	}
	return s.transitions[sym]
}

// SetTransition records the target state for a symbol.
func (s *State) SetTransition(sym, target int) {
	s.transitions[sym] = target
}

// Transitions returns a copy of the full symbol-indexed transition table.
func (s *State) Transitions() []int {
	out := make([]int, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// Partition is the full set of live causal states.
type Partition struct {
	k      int
	states map[int]*State
	order  []int // live state ids in creation order
	nextID int
}

// New creates an empty partition for an alphabet of size k.
func New(k int) *Partition {
	return &Partition{
		k:      k,
		states: make(map[int]*State),
	}
}

// NewState creates a state with the next id in creation order.
func (p *Partition) NewState() *State {
	s := &State{
		id:          p.nextID,
		members:     make(map[tree.NodeID]struct{}),
		counts:      make([]int, p.k),
		transitions: newTransitions(p.k),
	}
	p.nextID++
	p.states[s.id] = s
	p.order = append(p.order, s.id)
	return s
}

func newTransitions(k int) []int {
	t := make([]int, k)
	for i := range t {
		t[i] = NoTransition
	}
	return t
}

// Get returns the state with the given id.
func (p *Partition) Get(id int) (*State, bool) {
	s, ok := p.states[id]
	return s, ok
}

// Len returns the number of live states.
func (p *Partition) Len() int {
	return len(p.states)
}

// States returns the live states in creation order.
func (p *Partition) States() []*State {
	out := make([]*State, 0, len(p.states))
	for _, id := range p.order {
		if s, ok := p.states[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Assign moves a node into the given state, detaching it from its current
// state first. Aggregate counts on both sides are updated incrementally,
// and the node's back-reference is kept consistent.
func (p *Partition) Assign(t *tree.Tree, id tree.NodeID, s *State) {
	p.Detach(t, id)
	if _, ok := p.states[s.id]; !ok {
		// The state was emptied and dropped while its members were in
		// flight; its slot in the creation order is retained, so
		// re-registering restores it at its original position.
		p.states[s.id] = s
	}
	n := t.Node(id)
	s.members[id] = struct{}{}
	for i, c := range n.Counts {
		s.counts[i] += c
	}
	s.total += n.Total
	n.State = s.id
}

// Detach removes a node from its current state, if any. A state left
// empty is deleted from the partition.
func (p *Partition) Detach(t *tree.Tree, id tree.NodeID) {
	n := t.Node(id)
	if n.State == tree.Unassigned {
		return
	}
	s, ok := p.states[n.State]
	if !ok {
		n.State = tree.Unassigned
		return
	}
	delete(s.members, id)
	for i, c := range n.Counts {
		s.counts[i] -= c
	}
	s.total -= n.Total
	n.State = tree.Unassigned
	if len(s.members) == 0 {
		p.Remove(s.id)
	}
}

// Remove deletes a state from the partition. Member back-references are
// not touched; callers detach members first or are discarding them (as
// the determinizer does for transient and unreachable states).
func (p *Partition) Remove(id int) {
	delete(p.states, id)
}
