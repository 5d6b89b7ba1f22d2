// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ingest decodes symbol sequences from their text representation:
// one non-negative integer per line, blank lines ignored.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseSequence reads a symbol sequence from a reader.
//
// Inputs:
//
//	r - Text input, one integer per line. Blank lines are skipped.
//
// Outputs:
//
//	[]int - The decoded sequence, in input order.
//	error - A line-numbered wrap of ErrInvalidSymbol for non-integer or
//	  negative values, or ErrEmptyInput when no symbols were found.
func ParseSequence(r io.Reader) ([]int, error) {
	var sequence []int
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %q", line, ErrInvalidSymbol, text)
		}
		if v < 0 {
			return nil, fmt.Errorf("line %d: %w: %d is negative", line, ErrInvalidSymbol, v)
		}
		sequence = append(sequence, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(sequence) == 0 {
		return nil, ErrEmptyInput
	}
	return sequence, nil
}

// ReadSequence reads a symbol sequence from a file.
func ReadSequence(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sequence file: %w", err)
	}
	defer f.Close()

	seq, err := ParseSequence(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}
