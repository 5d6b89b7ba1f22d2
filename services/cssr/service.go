// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cssr

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/Epsilon/services/cssr/history"
	"github.com/AleutianAI/Epsilon/services/cssr/infer"
	storage "github.com/AleutianAI/Epsilon/services/cssr/storage/badger"
)

// ServiceConfig configures the service layer.
type ServiceConfig struct {
	// Defaults are the engine options applied when a request leaves a
	// field unset.
	Defaults infer.Options

	// RecentRuns is the capacity of the in-memory run history.
	// Default: 100.
	RecentRuns int
}

// DefaultServiceConfig returns production defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Defaults:   *infer.DefaultOptions(),
		RecentRuns: history.DefaultCapacity,
	}
}

// Service orchestrates inference runs, run history, and persistence.
//
// # Thread Safety
//
// Safe for concurrent use. Each run owns its tree and partition; only
// the run-history ring buffer is shared, guarded by a mutex.
type Service struct {
	cfg   ServiceConfig
	store *storage.ModelStore

	mu     sync.Mutex
	recent *history.RingBuffer[RunSummary]
}

// NewService creates a service with the given configuration.
func NewService(cfg ServiceConfig) *Service {
	if cfg.RecentRuns <= 0 {
		cfg.RecentRuns = history.DefaultCapacity
	}
	return &Service{
		cfg:    cfg,
		recent: history.NewRingBuffer[RunSummary](cfg.RecentRuns),
	}
}

// WithStore attaches a model store for persistence. Returns the service
// for chaining.
func (s *Service) WithStore(store *storage.ModelStore) *Service {
	s.store = store
	return s
}

// HasStore reports whether persistence is configured.
func (s *Service) HasStore() bool {
	return s.store != nil
}

// Infer runs the full pipeline over a sequence and records the run.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	sequence - Raw symbol values.
//	opts - Engine options; nil uses the service defaults.
//	source - Where the sequence came from, for run records ("inline",
//	  a file path).
//	save - Persist the model when a store is configured.
//
// Outputs:
//
//	string - The run id.
//	*infer.Result - The engine result.
//	error - Engine errors, or store errors when saving was requested.
func (s *Service) Infer(ctx context.Context, sequence []int, opts *infer.Options, source string, save bool) (string, *infer.Result, error) {
	if opts == nil {
		o := s.cfg.Defaults
		opts = &o
	}

	result, err := infer.Run(ctx, sequence, opts)
	if err != nil {
		return "", nil, err
	}

	runID := uuid.NewString()
	summary := RunSummary{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Source:    source,
		States:    result.States,
		Sequence:  len(sequence),
		Duration:  result.Duration,
	}
	s.mu.Lock()
	s.recent.Push(summary)
	s.mu.Unlock()

	if save {
		if s.store == nil {
			return runID, result, ErrStoreUnavailable
		}
		record := &storage.StoredModel{
			RunID:     runID,
			CreatedAt: summary.CreatedAt,
			Source:    source,
			Options:   *opts,
			States:    result.States,
			Model:     result.Model,
		}
		if err := s.store.Save(ctx, record); err != nil {
			return runID, result, fmt.Errorf("persist model: %w", err)
		}
	}
	return runID, result, nil
}

// RecentRuns returns the newest n run summaries, oldest-first.
func (s *Service) RecentRuns(n int) []RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		return s.recent.Slice()
	}
	return s.recent.Last(n)
}

// GetModel loads a stored model by run id.
func (s *Service) GetModel(ctx context.Context, runID string) (*storage.StoredModel, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	return s.store.Get(ctx, runID)
}

// ListModels lists stored model summaries.
func (s *Service) ListModels(ctx context.Context) ([]storage.ModelSummary, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	return s.store.List(ctx)
}

// DeleteModel removes a stored model by run id.
func (s *Service) DeleteModel(ctx context.Context, runID string) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	return s.store.Delete(ctx, runID)
}
