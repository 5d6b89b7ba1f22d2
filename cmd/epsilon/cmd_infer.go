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

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/Epsilon/cmd/epsilon/config"
	"github.com/AleutianAI/Epsilon/pkg/ux"
	cssr "github.com/AleutianAI/Epsilon/services/cssr"
	"github.com/AleutianAI/Epsilon/services/cssr/format"
	"github.com/AleutianAI/Epsilon/services/cssr/infer"
	"github.com/AleutianAI/Epsilon/services/cssr/ingest"
	storage "github.com/AleutianAI/Epsilon/services/cssr/storage/badger"
)

// engineOptions merges the config defaults with any flags the user set.
func engineOptions() *infer.Options {
	opts := config.Global.Engine
	if maxHistory > 0 {
		opts.MaxHistory = maxHistory
	}
	if alpha > 0 {
		opts.Alpha = alpha
	}
	if minSupport > 0 {
		opts.MinSupport = minSupport
	}
	if maxPasses > 0 {
		opts.MaxPasses = maxPasses
	}
	if workers > 0 {
		opts.Workers = workers
	}
	return &opts
}

// openStore opens the configured BadgerDB model store.
func openStore() (*badger.DB, *storage.ModelStore, error) {
	cfg := storage.DefaultConfig()
	cfg.Path = config.Global.Storage.Path
	cfg.SyncWrites = config.Global.Storage.SyncWrites
	db, err := storage.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open model store: %w", err)
	}
	return db, storage.NewModelStore(db), nil
}

// readInput loads the sequence from a file argument or stdin.
func readInput(args []string) ([]int, string, error) {
	if len(args) == 0 {
		seq, err := ingest.ParseSequence(os.Stdin)
		return seq, "stdin", err
	}
	seq, err := ingest.ReadSequence(args[0])
	return seq, args[0], err
}

// writeResult formats the model and writes it to the output path or
// stdout.
func writeResult(m *infer.Model) error {
	f, err := format.New(format.FormatType(outputFormat))
	if err != nil {
		return err
	}
	out, err := f.Format(m)
	if err != nil {
		return err
	}
	if outputPath != "" {
		return os.WriteFile(outputPath, []byte(out), 0644)
	}
	fmt.Print(out)
	return nil
}

func runInfer(cmd *cobra.Command, args []string) error {
	sequence, source, err := readInput(args)
	if err != nil {
		return err
	}

	svcCfg := cssr.DefaultServiceConfig()
	svcCfg.Defaults = *engineOptions()
	svc := cssr.NewService(svcCfg)

	if saveModel {
		db, store, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		svc.WithStore(store)
	}

	runID, result, err := svc.Infer(context.Background(), sequence, nil, source, saveModel)
	if err != nil {
		return err
	}

	if err := writeResult(result.Model); err != nil {
		return err
	}
	if outputPath != "" {
		ux.Success(fmt.Sprintf("wrote %s (%d states)", outputPath, result.States))
	}
	if saveModel {
		ux.Info(fmt.Sprintf("saved model %s", runID))
	}
	return nil
}
