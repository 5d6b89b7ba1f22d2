// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/Epsilon/services/cssr/infer"
)

// Sentinel errors for the model store.
var (
	// ErrModelNotFound is returned when no model exists for a run id.
	ErrModelNotFound = errors.New("model not found")

	// ErrNilModel is returned when Save receives a nil record or model.
	ErrNilModel = errors.New("model is nil")
)

const modelKeyPrefix = "model:"

// StoredModel is the persisted form of one inference run.
type StoredModel struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// CreatedAt is when the run finished.
	CreatedAt time.Time `json:"created_at"`

	// Source describes the input (file path or "inline").
	Source string `json:"source"`

	// Options is the configuration the run used.
	Options infer.Options `json:"options"`

	// States is the final causal state count.
	States int `json:"states"`

	// Model is the emitted machine.
	Model *infer.Model `json:"model"`
}

// ModelSummary is the listing form of a stored model, without the model
// body.
type ModelSummary struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	States    int       `json:"states"`
}

// ModelStore persists inference results keyed by run id.
//
// Thread Safety: Safe for concurrent use; BadgerDB transactions provide
// isolation.
type ModelStore struct {
	db *badger.DB
}

// NewModelStore wraps an opened database. The store does not own the
// database; the caller closes it.
func NewModelStore(db *badger.DB) *ModelStore {
	return &ModelStore{db: db}
}

func modelKey(runID string) []byte {
	return []byte(modelKeyPrefix + runID)
}

// Save writes a model record.
func (s *ModelStore) Save(ctx context.Context, record *StoredModel) error {
	if record == nil || record.Model == nil {
		return ErrNilModel
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal model %s: %w", record.RunID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(modelKey(record.RunID), data)
	})
	if err != nil {
		return fmt.Errorf("save model %s: %w", record.RunID, err)
	}
	return nil
}

// Get loads the model record for a run id.
func (s *ModelStore) Get(ctx context.Context, runID string) (*StoredModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var record StoredModel
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(modelKey(runID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrModelNotFound, runID)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns summaries of all stored models in key order.
func (s *ModelStore) List(ctx context.Context) ([]ModelSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var summaries []ModelSummary
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(modelKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record StoredModel
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				summaries = append(summaries, ModelSummary{
					RunID:     record.RunID,
					CreatedAt: record.CreatedAt,
					Source:    record.Source,
					States:    record.States,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return summaries, nil
}

// Delete removes the model record for a run id. Deleting an absent id
// returns ErrModelNotFound.
func (s *ModelStore) Delete(ctx context.Context, runID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(modelKey(runID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrModelNotFound, runID)
			}
			return err
		}
		return txn.Delete(modelKey(runID))
	})
}
