// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds the user-level configuration for the epsilon CLI,
// loaded from ~/.aleutian/epsilon.yaml.
package config

import (
	"os"
	"path/filepath"

	"github.com/AleutianAI/Epsilon/services/cssr/infer"
)

type EpsilonConfig struct {
	// Engine: default inference options, overridable per-run by flags
	Engine infer.Options `yaml:"engine"`

	// Server: HTTP service settings for `epsilon serve`
	Server ServerConfig `yaml:"server"`

	// Storage: model store settings
	Storage StorageConfig `yaml:"storage"`

	// Logging: log output settings
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host       string `yaml:"host"`        // e.g. 0.0.0.0
	Port       int    `yaml:"port"`        // e.g. 8080
	RecentRuns int    `yaml:"recent_runs"` // run-history capacity
}

type StorageConfig struct {
	// Path is the BadgerDB directory. Supports ~ expansion.
	Path string `yaml:"path"`

	// SyncWrites trades write throughput for durability.
	SyncWrites bool `yaml:"sync_writes"`
}

type LoggingConfig struct {
	// Level can be "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// Dir enables file logging when set. Supports ~ expansion.
	Dir string `yaml:"dir"`

	// JSON switches stderr output to JSON format.
	JSON bool `yaml:"json"`
}

func DefaultConfig() EpsilonConfig {
	storePath := filepath.Join(".aleutian", "epsilon", "models")
	if home, err := os.UserHomeDir(); err == nil {
		storePath = filepath.Join(home, ".aleutian", "epsilon", "models")
	}
	return EpsilonConfig{
		Engine: *infer.DefaultOptions(),
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       8080,
			RecentRuns: 100,
		},
		Storage: StorageConfig{
			Path: storePath,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
