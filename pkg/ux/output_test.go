// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"testing"
)

func TestSetPlain(t *testing.T) {
	SetPlain(true)
	defer func() {
		plainMu.Lock()
		plainSet = false
		plainMu.Unlock()
	}()

	if !Plain() {
		t.Error("Plain() = false after SetPlain(true)")
	}

	SetPlain(false)
	if Plain() {
		t.Error("Plain() = true after SetPlain(false)")
	}
}

func TestIcon_RenderPlain(t *testing.T) {
	SetPlain(true)
	defer func() {
		plainMu.Lock()
		plainSet = false
		plainMu.Unlock()
	}()

	tests := []struct {
		icon Icon
		want string
	}{
		{IconSuccess, "✓"},
		{IconWarning, "⚠"},
		{IconError, "✗"},
		{IconArrow, "→"},
	}

	for _, tt := range tests {
		if got := tt.icon.Render(); got != tt.want {
			t.Errorf("Icon(%q).Render() = %q, want %q", tt.icon, got, tt.want)
		}
	}
}

func TestStylesConfigured(t *testing.T) {
	if !Styles.Title.GetBold() {
		t.Error("Title style should be bold")
	}
	if !Styles.Bold.GetBold() {
		t.Error("Bold style should be bold")
	}
	if Styles.Error.GetForeground() != ColorError {
		t.Error("Error style foreground mismatch")
	}
}
