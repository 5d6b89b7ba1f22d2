// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Epsilon/pkg/ux"
	"github.com/AleutianAI/Epsilon/services/cssr/infer"
	"github.com/AleutianAI/Epsilon/services/cssr/ingest"
	"github.com/AleutianAI/Epsilon/services/cssr/watch"
)

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	opts := engineOptions()

	handler := func(ctx context.Context) error {
		sequence, err := ingest.ReadSequence(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		result, err := infer.Run(ctx, sequence, opts)
		if err != nil {
			return fmt.Errorf("infer %s: %w", path, err)
		}
		if err := writeResult(result.Model); err != nil {
			return err
		}
		ux.Success(fmt.Sprintf("%s: %d states in %s",
			path, result.States, result.Duration.Round(time.Millisecond)))
		return nil
	}

	var watchOpts *watch.Options
	if watchDebounceMS > 0 {
		watchOpts = &watch.Options{Debounce: time.Duration(watchDebounceMS) * time.Millisecond}
	}
	w, err := watch.New(path, handler, watchOpts)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run once immediately so the watcher starts from a known output.
	if err := handler(ctx); err != nil {
		ux.Warning(err.Error())
	}

	ux.Info(fmt.Sprintf("watching %s (Ctrl+C to stop)", path))
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	fmt.Fprintln(os.Stderr)
	return nil
}
