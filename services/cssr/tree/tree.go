// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tree builds the history tree of a symbol sequence.
//
// The tree is a suffix trie over observed histories: the root is the empty
// history, depth-1 nodes are single-symbol histories, and descending one
// level prepends one symbol to the left (one step further into the past).
// Every node carries next-symbol frequency counts for the positions where
// its history was observed.
//
// # Ownership Model
//
// The tree owns all nodes in a flat arena addressed by NodeID. Causal
// states hold NodeIDs only, never node pointers, so there is no ownership
// cycle between the partition and the tree. A node's State field is the
// single mutable back-reference and is managed by the partition package.
//
// # Thread Safety
//
// Tree is NOT safe for concurrent use during building. After Build returns
// it is read-only except for the per-node State field, which is mutated
// only by the single goroutine running refinement and determinization.
package tree

import (
	"context"
	"fmt"

	"github.com/AleutianAI/Epsilon/services/cssr/alphabet"
)

// NodeID addresses a node in the tree's arena.
type NodeID int

// None marks an absent node reference (no child, no parent for the root).
const None NodeID = -1

// Unassigned marks a node that has not been placed in a causal state.
const Unassigned = -1

// Node is one history in the tree.
//
// Counts[s] is how often this history was immediately followed by symbol s
// in the data. Children[s] is the history obtained by prepending s (one
// symbol further into the past), or None if never observed.
type Node struct {
	// Parent is the one-symbol-shorter suffix of this history.
	Parent NodeID

	// Symbol is the leading (oldest) symbol of this history, the one
	// prepended relative to Parent. Meaningless for the root.
	Symbol alphabet.Symbol

	// Depth is the history length; 0 for the root.
	Depth int

	// Counts holds next-symbol frequencies, indexed by dense code.
	Counts []int

	// Total is the sum of Counts.
	Total int

	// Children maps each dense code to the extended history, or None.
	Children []NodeID

	// State is the id of the causal state this node is assigned to, or
	// Unassigned. Mutated by the partition during refinement.
	State int
}

// Tree is the arena of history nodes for one sequence.
type Tree struct {
	nodes      []Node
	k          int
	maxHistory int
	seqLen     int
}

// Build constructs the history tree for an encoded sequence.
//
// Description:
//
//	For every position in the sequence and every history length L from 0
//	up to maxHistory (bounded by the available past), the L symbols
//	preceding the position are looked up or created as a node and the
//	symbol at the position is counted as that node's next symbol. Nodes
//	are created lazily in first-observation order, so construction is
//	deterministic for a given sequence.
//
// Inputs:
//
//	ctx - Context checked at position boundaries for cancellation.
//	seq - Dense-coded sequence from alphabet.Resolve.
//	k - Alphabet size. Must be positive.
//	maxHistory - Longest history length to materialize. Must be positive.
//
// Outputs:
//
//	*Tree - The built tree.
//	error - ErrInsufficientData if len(seq) <= maxHistory, or the context
//	  error if cancelled.
//
// Complexity: O(len(seq) * maxHistory) time, O(nodes * k) memory.
func Build(ctx context.Context, seq []alphabet.Symbol, k, maxHistory int) (*Tree, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: alphabet size %d", ErrInvalidAlphabet, k)
	}
	if len(seq) <= maxHistory {
		return nil, fmt.Errorf("%w: sequence length %d requires more than max history %d symbols",
			ErrInsufficientData, len(seq), maxHistory)
	}

	t := newTree(k, maxHistory, len(seq))
	for pos := 0; pos < len(seq); pos++ {
		if pos%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		t.countPosition(seq, pos)
	}
	return t, nil
}

func newTree(k, maxHistory, seqLen int) *Tree {
	t := &Tree{
		nodes:      make([]Node, 0, 1024),
		k:          k,
		maxHistory: maxHistory,
		seqLen:     seqLen,
	}
	t.addNode(None, 0, 0)
	return t
}

// countPosition records the next-symbol observation at pos for every
// history length reachable from that position.
func (t *Tree) countPosition(seq []alphabet.Symbol, pos int) {
	next := seq[pos]
	cur := t.Root()
	t.nodes[cur].Counts[next]++
	t.nodes[cur].Total++
	for l := 1; l <= t.maxHistory && l <= pos; l++ {
		cur = t.child(cur, seq[pos-l], true)
		t.nodes[cur].Counts[next]++
		t.nodes[cur].Total++
	}
}

func (t *Tree) addNode(parent NodeID, sym alphabet.Symbol, depth int) NodeID {
	id := NodeID(len(t.nodes))
	children := make([]NodeID, t.k)
	for i := range children {
		children[i] = None
	}
	t.nodes = append(t.nodes, Node{
		Parent:   parent,
		Symbol:   sym,
		Depth:    depth,
		Counts:   make([]int, t.k),
		Children: children,
		State:    Unassigned,
	})
	return id
}

// child returns the child of id for sym, creating it when create is true.
// Returns None when absent and create is false.
func (t *Tree) child(id NodeID, sym alphabet.Symbol, create bool) NodeID {
	c := t.nodes[id].Children[sym]
	if c != None || !create {
		return c
	}
	c = t.addNode(id, sym, t.nodes[id].Depth+1)
	t.nodes[id].Children[sym] = c
	return c
}

// Root returns the empty-history node.
func (t *Tree) Root() NodeID {
	return 0
}

// Node returns a pointer into the arena. The pointer stays valid for the
// lifetime of the tree; only the State field may be mutated through it.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// K returns the alphabet size the tree was built with.
func (t *Tree) K() int {
	return t.k
}

// MaxHistory returns the history length bound the tree was built with.
func (t *Tree) MaxHistory() int {
	return t.maxHistory
}

// SeqLen returns the length of the sequence the tree was built from.
func (t *Tree) SeqLen() int {
	return t.seqLen
}

// NodesAtDepth returns all node ids of the given history length in arena
// order, which is first-observation order and therefore deterministic.
func (t *Tree) NodesAtDepth(depth int) []NodeID {
	var out []NodeID
	for i := range t.nodes {
		if t.nodes[i].Depth == depth {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// History reconstructs the symbol sequence of a node, oldest symbol first,
// by walking parent links.
func (t *Tree) History(id NodeID) []alphabet.Symbol {
	n := &t.nodes[id]
	out := make([]alphabet.Symbol, 0, n.Depth)
	for cur := id; cur != t.Root(); cur = t.nodes[cur].Parent {
		out = append(out, t.nodes[cur].Symbol)
	}
	return out
}

// Lookup finds the node for an exact history, oldest symbol first.
//
// Outputs:
//
//	NodeID - The node, valid only when found.
//	bool - False when the history was never observed.
func (t *Tree) Lookup(history []alphabet.Symbol) (NodeID, bool) {
	cur := t.Root()
	// Descend newest-to-oldest: each level prepends one symbol.
	for i := len(history) - 1; i >= 0; i-- {
		cur = t.child(cur, history[i], false)
		if cur == None {
			return None, false
		}
	}
	return cur, true
}

// Successor finds the history reached from id by emitting sym: the node's
// history extended on the right by sym, truncated on the left to
// maxHistory.
//
// Outputs:
//
//	NodeID - The successor node, valid only when found.
//	bool - False when the extended history was never observed in the data.
func (t *Tree) Successor(id NodeID, sym alphabet.Symbol) (NodeID, bool) {
	h := t.History(id)
	h = append(h, sym)
	if len(h) > t.maxHistory {
		h = h[len(h)-t.maxHistory:]
	}
	return t.Lookup(h)
}
