// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine.MaxHistory != 10 {
		t.Errorf("Engine.MaxHistory = %d, want 10", cfg.Engine.MaxHistory)
	}
	if cfg.Engine.Alpha != 0.05 {
		t.Errorf("Engine.Alpha = %v, want 0.05", cfg.Engine.Alpha)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Path == "" {
		t.Error("Storage.Path should have a default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 9090
	cfg.Engine.Alpha = 0.01

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), "max_history: 10") {
		t.Errorf("marshaled config missing engine options: %s", data)
	}

	var parsed EpsilonConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if parsed.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", parsed.Server.Port)
	}
	if parsed.Engine.Alpha != 0.01 {
		t.Errorf("Engine.Alpha = %v, want 0.01", parsed.Engine.Alpha)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	// A user config that only overrides the port must not zero out the
	// engine defaults.
	partial := "server:\n  port: 3000\n"

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(partial), &cfg); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Engine.MaxHistory != 10 {
		t.Errorf("Engine.MaxHistory = %d, want 10 (default preserved)", cfg.Engine.MaxHistory)
	}
}
