// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command epsilon infers epsilon-machines from discrete symbol
// sequences using causal-state splitting reconstruction.
//
// Usage:
//
//	epsilon infer sequence.txt
//	epsilon infer sequence.txt --max-history 6 --alpha 0.01 --format dot
//	epsilon serve --port 8080
//	epsilon watch sequence.txt -o machine.dot --format dot
//	epsilon models list
package main

import (
	"os"

	"github.com/AleutianAI/Epsilon/pkg/ux"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
}
