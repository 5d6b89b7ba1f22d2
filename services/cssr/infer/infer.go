// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package infer reconstructs a minimal causal-state automaton from a
// discrete symbol sequence.
//
// The pipeline is: resolve the alphabet, build the history tree, refine
// the partition of histories into causal states by statistical
// equivalence, determinize the partition into a unifilar machine, and
// emit the model. Run drives the whole pipeline; Refine, Determinize and
// Emit are exported for callers that need the stages individually.
package infer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/Epsilon/services/cssr/alphabet"
	"github.com/AleutianAI/Epsilon/services/cssr/partition"
	"github.com/AleutianAI/Epsilon/services/cssr/tree"
)

// Result is the outcome of one full inference run.
type Result struct {
	// Model is the emitted epsilon-machine.
	Model *Model `json:"model"`

	// States is the final causal state count.
	States int `json:"states"`

	// AlphabetSize is the number of distinct symbols observed.
	AlphabetSize int `json:"alphabet_size"`

	// Histories is the number of history-tree nodes materialized.
	Histories int `json:"histories"`

	// Refine and Determinize carry per-stage statistics.
	Refine      *RefineResult      `json:"refine"`
	Determinize *DeterminizeResult `json:"determinize"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Run executes the full inference pipeline over a raw symbol sequence.
//
// Description:
//
//	The partition and tree are constructed fresh per call and owned
//	exclusively by this goroutine, so concurrent Runs over different
//	inputs are safe.
//
// Inputs:
//
//	ctx - Context for cancellation, checked at stage and loop boundaries.
//	sequence - Raw non-negative symbol values, one per time step.
//	opts - Run options; validated (and defaulted) in place. Nil selects
//	  DefaultOptions.
//
// Outputs:
//
//	*Result - The model plus run statistics.
//	error - ErrInvalidConfiguration, alphabet/tree construction errors
//	  (including tree.ErrInsufficientData), or ErrNonConvergence. No
//	  partial model accompanies an error.
func Run(ctx context.Context, sequence []int, opts *Options) (*Result, error) {
	start := time.Now()
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ctx, span := inferTracer.Start(ctx, "infer.Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("sequence_length", len(sequence)),
		attribute.Int("max_history", opts.MaxHistory),
		attribute.Float64("alpha", opts.Alpha),
	)

	result, err := run(ctx, sequence, opts)
	if err != nil {
		recordRun(ctx, "error", 0, 0, 0)
		span.RecordError(err)
		return nil, err
	}

	result.Duration = time.Since(start)
	recordRun(ctx, "ok", result.States,
		result.Refine.Splits+result.Determinize.Splits,
		result.Duration.Seconds())

	slog.Info("Inference complete",
		"states", result.States,
		"alphabet", result.AlphabetSize,
		"histories", result.Histories,
		"duration", result.Duration)
	return result, nil
}

func run(ctx context.Context, sequence []int, opts *Options) (*Result, error) {
	a, encoded, err := alphabet.Resolve(sequence)
	if err != nil {
		return nil, fmt.Errorf("resolve alphabet: %w", err)
	}

	var t *tree.Tree
	if opts.Workers > 1 {
		t, err = tree.BuildParallel(ctx, encoded, a.Size(), opts.MaxHistory, opts.Workers)
	} else {
		t, err = tree.Build(ctx, encoded, a.Size(), opts.MaxHistory)
	}
	if err != nil {
		return nil, fmt.Errorf("build history tree: %w", err)
	}

	p := partition.New(a.Size())
	refineResult, err := Refine(ctx, t, p, opts)
	if err != nil {
		return nil, err
	}

	detResult, err := Determinize(ctx, t, p, opts)
	if err != nil {
		return nil, err
	}

	model := Emit(a, p, detResult.InitialState)
	return &Result{
		Model:        model,
		States:       len(model.States),
		AlphabetSize: a.Size(),
		Histories:    t.Len(),
		Refine:       refineResult,
		Determinize:  detResult,
	}, nil
}
