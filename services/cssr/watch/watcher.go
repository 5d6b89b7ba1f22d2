// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch re-runs inference when a sequence file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long to wait after the last write event before
// triggering. Editors and generators often write a file several times in
// quick succession.
const DefaultDebounce = 500 * time.Millisecond

// ErrNilHandler is returned when no change handler is supplied.
var ErrNilHandler = errors.New("change handler must not be nil")

// Handler is invoked after a debounced change to the watched file. Errors
// are logged, not fatal: a malformed intermediate write must not stop the
// watch loop.
type Handler func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period required after the last event.
	// Default: 500ms.
	Debounce time.Duration
}

// Validate applies defaults for zero values.
func (o *Options) Validate() {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
}

// Watcher triggers a handler when one file changes.
//
// # Thread Safety
//
// Run owns the watch loop; the handler is always called from that single
// goroutine.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	fs       *fsnotify.Watcher
}

// New creates a watcher for a single file.
//
// Description:
//
//	Watches the file's parent directory rather than the file itself so
//	that remove-and-recreate write patterns (common with atomic saves)
//	keep being observed.
//
// Inputs:
//
//	path - The sequence file to watch.
//	handler - Called after a debounced change. Must not be nil.
//	opts - Optional configuration; nil selects defaults.
//
// Outputs:
//
//	*Watcher - The watcher. Caller must call Close() when done.
//	error - Non-nil if the underlying watcher cannot be created or the
//	  directory cannot be watched.
func New(path string, handler Handler, opts *Options) (*Watcher, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if opts == nil {
		opts = &Options{}
	}
	opts.Validate()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resolve path %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		handler:  handler,
		debounce: opts.Debounce,
		fs:       fsw,
	}, nil
}

// Run processes events until the context is cancelled.
//
// Description:
//
//	Write and create events for the watched file arm a debounce timer;
//	when the timer fires without further events, the handler runs once.
//	Handler errors are logged and the loop continues.
//
// Outputs:
//
//	error - The context error on cancellation, or a watcher error.
func (w *Watcher) Run(ctx context.Context) error {
	logger := slog.With("component", "watch", "path", w.path)
	logger.Info("Watching sequence file")

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			logger.Debug("Debounce elapsed, re-running handler")
			if err := w.handler(ctx); err != nil {
				logger.Warn("Change handler failed", "error", err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "error", err)
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
