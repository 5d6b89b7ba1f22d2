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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Epsilon/services/cssr/infer"
)

func newTestStore(t *testing.T) *ModelStore {
	t.Helper()
	db, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewModelStore(db)
}

func testRecord(runID string) *StoredModel {
	return &StoredModel{
		RunID:     runID,
		CreatedAt: time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC),
		Source:    "sequence.txt",
		Options:   *infer.DefaultOptions(),
		States:    2,
		Model: &infer.Model{
			Alphabet:     []int{0, 1},
			InitialState: 0,
			States: []infer.ModelState{
				{ID: 0, Distribution: map[int]float64{1: 1.0}, Transitions: map[int]int{1: 1}, Histories: 2},
				{ID: 1, Distribution: map[int]float64{0: 1.0}, Transitions: map[int]int{0: 0}, Histories: 2},
			},
		},
	}
}

func TestModelStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := testRecord("run-1")
	require.NoError(t, store.Save(ctx, record))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, record.RunID, got.RunID)
	assert.Equal(t, record.Source, got.Source)
	assert.Equal(t, record.States, got.States)
	assert.True(t, record.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.Model)
	assert.Equal(t, record.Model.States, got.Model.States)
	assert.Equal(t, record.Options.MaxHistory, got.Options.MaxHistory)
}

func TestModelStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := testRecord("run-1")
	require.NoError(t, store.Save(ctx, record))

	record.States = 5
	require.NoError(t, store.Save(ctx, record))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.States)

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestModelStore_SaveNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, nil), ErrNilModel)
	assert.ErrorIs(t, store.Save(ctx, &StoredModel{RunID: "run-1"}), ErrNilModel)
}

func TestModelStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.Contains(t, err.Error(), "absent")
}

func TestModelStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)

	for _, id := range []string{"run-b", "run-a", "run-c"} {
		require.NoError(t, store.Save(ctx, testRecord(id)))
	}

	summaries, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	// BadgerDB iterates in key order.
	assert.Equal(t, "run-a", summaries[0].RunID)
	assert.Equal(t, "run-b", summaries[1].RunID)
	assert.Equal(t, "run-c", summaries[2].RunID)
	assert.Equal(t, 2, summaries[0].States)
	assert.Equal(t, "sequence.txt", summaries[0].Source)
}

func TestModelStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("run-1")))
	require.NoError(t, store.Delete(ctx, "run-1"))

	_, err := store.Get(ctx, "run-1")
	assert.ErrorIs(t, err, ErrModelNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "run-1"), ErrModelNotFound)
}

func TestModelStore_CancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, testRecord("run-1")), context.Canceled)
	_, err := store.Get(ctx, "run-1")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Delete(ctx, "run-1"), context.Canceled)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
}

func TestOpen_Persistent(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(Config{Path: dir, SyncWrites: false})
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
