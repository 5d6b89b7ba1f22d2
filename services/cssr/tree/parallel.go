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
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/Epsilon/services/cssr/alphabet"
)

// minParallelLen is the sequence length below which BuildParallel falls
// back to the sequential builder; shard overhead dominates under this.
const minParallelLen = 16384

// BuildParallel constructs the history tree using multiple workers.
//
// Description:
//
//	Counting is the only order-independent step of the algorithm, so it is
//	the only one parallelized. The sequence is split into contiguous
//	position shards; each worker counts its shard into a private tree
//	(histories may reach back into the preceding shard, which is safe
//	because the sequence is shared read-only). Shard trees are then merged
//	in shard order by summing counts, which preserves the conservation
//	invariant and yields counts identical to the sequential builder.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	seq - Dense-coded sequence from alphabet.Resolve.
//	k - Alphabet size. Must be positive.
//	maxHistory - Longest history length to materialize. Must be positive.
//	workers - Shard count. Must be positive; use runtime.NumCPU() for a
//	  sensible default.
//
// Outputs:
//
//	*Tree - The built tree. Counts match Build exactly; node ids may
//	  differ but are deterministic for a fixed worker count.
//	error - Same failure modes as Build, plus ErrNoWorkers.
func BuildParallel(ctx context.Context, seq []alphabet.Symbol, k, maxHistory, workers int) (*Tree, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoWorkers, workers)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: alphabet size %d", ErrInvalidAlphabet, k)
	}
	if len(seq) <= maxHistory {
		return nil, fmt.Errorf("%w: sequence length %d requires more than max history %d symbols",
			ErrInsufficientData, len(seq), maxHistory)
	}
	if workers == 1 || len(seq) < minParallelLen {
		return Build(ctx, seq, k, maxHistory)
	}
	if workers > runtime.NumCPU()*2 {
		workers = runtime.NumCPU() * 2
	}

	shards := make([]*Tree, workers)
	shardSize := (len(seq) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		lo := w * shardSize
		hi := lo + shardSize
		if hi > len(seq) {
			hi = len(seq)
		}
		if lo >= hi {
			continue
		}
		shard := w
		g.Go(func() error {
			st := newTree(k, maxHistory, len(seq))
			for pos := lo; pos < hi; pos++ {
				if pos%4096 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				st.countPosition(seq, pos)
			}
			shards[shard] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in shard order so node creation order is deterministic.
	dst := newTree(k, maxHistory, len(seq))
	for _, st := range shards {
		if st == nil {
			continue
		}
		dst.merge(dst.Root(), st, st.Root())
	}
	return dst, nil
}

// merge folds the subtree rooted at srcID into dstID, summing counts.
func (t *Tree) merge(dstID NodeID, src *Tree, srcID NodeID) {
	sn := src.Node(srcID)
	dn := t.Node(dstID)
	for s := 0; s < t.k; s++ {
		dn.Counts[s] += sn.Counts[s]
	}
	dn.Total += sn.Total
	for s := 0; s < t.k; s++ {
		sc := sn.Children[s]
		if sc == None {
			continue
		}
		dc := t.child(dstID, alphabet.Symbol(s), true)
		t.merge(dc, src, sc)
	}
}
