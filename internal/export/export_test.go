// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/chatterm/internal/model"
)

func sampleTranscript() []model.Message {
	ts := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	return []model.Message{
		{Type: model.TypeUser, Content: "Where is my order?", Timestamp: ts},
		{Type: model.TypeBot, Content: "Let me check that for you.", Timestamp: ts.Add(2 * time.Second)},
	}
}

func TestTextExport(t *testing.T) {
	content, err := NewTextExporter().Export("Order status", sampleTranscript())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	text := string(content)
	lines := strings.Split(text, "\n")

	if lines[0] != "Order status" {
		t.Errorf("title line = %q", lines[0])
	}
	if lines[1] != strings.Repeat("=", 50) {
		t.Errorf("rule line = %q", lines[1])
	}
	if lines[2] != "" {
		t.Errorf("expected blank line after rule, got %q", lines[2])
	}
	if lines[3] != "[USER] 2025-03-10 14:30:00" {
		t.Errorf("first header = %q", lines[3])
	}
	if lines[4] != "Where is my order?" {
		t.Errorf("first content = %q", lines[4])
	}
	if !strings.Contains(text, "[BOT] 2025-03-10 14:30:02") {
		t.Error("bot header missing")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := For(Format("pdf"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()

	path, err := ToFile(FormatText, "Order status", sampleTranscript(), &Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	if filepath.Base(path) != "Order status.txt" {
		t.Errorf("filename = %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "Order status\n") {
		t.Errorf("content = %q", data)
	}
}

func TestToFileSanitizesTitle(t *testing.T) {
	dir := t.TempDir()

	path, err := ToFile(FormatText, "../escape/attempt", sampleTranscript(), &Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	// The file must land inside the output directory.
	if filepath.Dir(path) != dir {
		t.Errorf("path = %q escaped %q", path, dir)
	}
	if strings.ContainsAny(filepath.Base(path), "/\\") {
		t.Errorf("separator survived sanitization: %q", filepath.Base(path))
	}
}
