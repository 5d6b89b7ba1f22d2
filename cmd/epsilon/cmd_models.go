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
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Epsilon/pkg/ux"
)

func runModelsList(cmd *cobra.Command, args []string) error {
	db, store, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	summaries, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		ux.Muted("no stored models")
		return nil
	}

	ux.Title("Stored models")
	for _, s := range summaries {
		fmt.Printf("%s  %s  %3d states  %s\n",
			s.RunID,
			s.CreatedAt.Local().Format(time.RFC3339),
			s.States,
			s.Source)
	}
	return nil
}

func runModelsShow(cmd *cobra.Command, args []string) error {
	db, store, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stored, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	return writeResult(stored.Model)
}

func runModelsDelete(cmd *cobra.Command, args []string) error {
	db, store, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	ux.Success(fmt.Sprintf("deleted model %s", args[0]))
	return nil
}
