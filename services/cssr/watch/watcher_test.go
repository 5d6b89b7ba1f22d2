// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_NilHandler(t *testing.T) {
	_, err := New("seq.txt", nil, nil)
	if !errors.Is(err, ErrNilHandler) {
		t.Fatalf("New = %v, want ErrNilHandler", err)
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "seq.txt")
	_, err := New(path, func(context.Context) error { return nil }, nil)
	if err == nil {
		t.Fatal("New succeeded watching a missing directory")
	}
}

func TestOptionsValidate_Defaults(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		opts := &Options{Debounce: d}
		opts.Validate()
		if opts.Debounce != DefaultDebounce {
			t.Errorf("Debounce = %v, want %v", opts.Debounce, DefaultDebounce)
		}
	}
}

func TestWatcher_TriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seq.txt")
	if err := os.WriteFile(path, []byte("0\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	w, err := New(path, func(context.Context) error {
		calls.Add(1)
		return nil
	}, &Options{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watch loop a moment to start before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("0\n1\n0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("handler never ran after a write")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seq.txt")
	if err := os.WriteFile(path, []byte("0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	w, err := New(path, func(context.Context) error {
		calls.Add(1)
		return nil
	}, &Options{Debounce: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	// A burst of writes inside the debounce window collapses to one run.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("0\n1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	deadline := time.After(3 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("handler never ran after the burst")
		case <-time.After(10 * time.Millisecond):
		}
	}
	// Wait past another full debounce window: no further runs should
	// arrive without new writes.
	time.Sleep(400 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("handler ran %d times, want 1", got)
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seq.txt")
	if err := os.WriteFile(path, []byte("0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	w, err := New(path, func(context.Context) error {
		calls.Add(1)
		return nil
	}, &Options{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("handler ran %d times for an unrelated file", got)
	}
}

func TestWatcher_SurvivesHandlerError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seq.txt")
	if err := os.WriteFile(path, []byte("0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	w, err := New(path, func(context.Context) error {
		calls.Add(1)
		return errors.New("parse failed")
	}, &Options{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 2; i++ {
		if err := os.WriteFile(path, []byte("0\n1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		deadline := time.After(3 * time.Second)
		want := int32(i + 1)
		for calls.Load() < want {
			select {
			case <-deadline:
				t.Fatalf("handler ran %d times, want %d", calls.Load(), want)
			case <-time.After(10 * time.Millisecond):
			}
		}
	}
}
