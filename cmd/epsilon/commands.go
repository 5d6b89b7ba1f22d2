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
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Epsilon/cmd/epsilon/config"
	"github.com/AleutianAI/Epsilon/pkg/logging"
	"github.com/AleutianAI/Epsilon/pkg/ux"
)

// --- Global Command Variables ---
var (
	maxHistory   int
	alpha        float64
	minSupport   int
	maxPasses    int
	workers      int
	outputFormat string
	outputPath   string
	saveModel    bool
	plainOutput  bool

	servePort    int
	serveHost    string
	serveNoStore bool

	watchDebounceMS int

	rootCmd = &cobra.Command{
		Use:   "epsilon",
		Short: "Infer epsilon-machines from symbol sequences",
		Long: `Epsilon reconstructs the minimal deterministic causal-state
				automaton (epsilon-machine) of a discrete stochastic process
				from an observed symbol sequence.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plainOutput {
				ux.SetPlain(true)
			}
			if err := config.Load(); err != nil {
				log.Fatalf("Error loading config: %v", err)
			}
			initLogging()
		},
	}

	// --- Inference ---
	inferCmd = &cobra.Command{
		Use:   "infer [sequence-file]",
		Short: "Infer an epsilon-machine from a sequence file (or stdin)",
		Long: `Reads a sequence of non-negative integer symbols, one per
				line, and prints the inferred machine. Reads stdin when no
				file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInfer, // Defined in cmd_infer.go
	}

	// --- HTTP Service ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the epsilon inference HTTP service",
		RunE:  runServe, // Defined in cmd_serve.go
	}

	// --- Watch Mode ---
	watchCmd = &cobra.Command{
		Use:   "watch [sequence-file]",
		Short: "Re-run inference whenever a sequence file changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch, // Defined in cmd_watch.go
	}

	// --- Model Store ---
	modelsCmd = &cobra.Command{
		Use:   "models",
		Short: "Manage persisted models in the local store",
	}
	modelsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List stored models",
		RunE:  runModelsList, // Defined in cmd_models.go
	}
	modelsShowCmd = &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print a stored model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelsShow, // Defined in cmd_models.go
	}
	modelsDeleteCmd = &cobra.Command{
		Use:   "delete [run-id]",
		Short: "Delete a stored model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelsDelete, // Defined in cmd_models.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the epsilon version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
)

const version = "0.1.0"

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"Disable styled output (automatic when stdout is not a terminal)")

	rootCmd.AddCommand(inferCmd)
	inferCmd.Flags().IntVar(&maxHistory, "max-history", 0,
		"Longest history length to consider (default from config)")
	inferCmd.Flags().Float64Var(&alpha, "alpha", 0,
		"Significance level for the distinguishability test, in (0,1)")
	inferCmd.Flags().IntVar(&minSupport, "min-support", 0,
		"Minimum observation count for a history to be tested")
	inferCmd.Flags().IntVar(&maxPasses, "max-passes", 0,
		"Bound on each refinement fixed-point loop")
	inferCmd.Flags().IntVar(&workers, "workers", 0,
		"Shard count for parallel tree construction (0 = sequential)")
	inferCmd.Flags().StringVarP(&outputFormat, "format", "f", "text",
		"Output format: text, json, or dot")
	inferCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write output to a file instead of stdout")
	inferCmd.Flags().BoolVar(&saveModel, "save", false,
		"Persist the inferred model to the local store")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (default from config)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false,
		"Run without a model store; persistence endpoints return 503")

	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&outputFormat, "format", "f", "text",
		"Output format: text, json, or dot")
	watchCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write each result to a file instead of stdout")
	watchCmd.Flags().IntVar(&watchDebounceMS, "debounce", 0,
		"Quiet period after the last write event, in milliseconds")
	watchCmd.Flags().IntVar(&maxHistory, "max-history", 0,
		"Longest history length to consider (default from config)")
	watchCmd.Flags().Float64Var(&alpha, "alpha", 0,
		"Significance level for the distinguishability test, in (0,1)")

	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsShowCmd)
	modelsShowCmd.Flags().StringVarP(&outputFormat, "format", "f", "json",
		"Output format: text, json, or dot")
	modelsCmd.AddCommand(modelsDeleteCmd)

	rootCmd.AddCommand(versionCmd)
}

// initLogging installs the configured logger as the slog default so the
// cssr packages share destinations.
func initLogging() {
	cfg := config.Global.Logging
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Level),
		LogDir:  cfg.Dir,
		Service: "epsilon",
		JSON:    cfg.JSON,
	})
	logger.Install()
}
