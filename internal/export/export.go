// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation transcripts to local files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/chatterm/internal/model"
)

// ErrUnsupportedFormat indicates a format no exporter exists for.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format identifies an export format.
type Format string

// FormatText is the plain-text transcript format. It is the only format the
// service's web client offers, so it is the only one implemented.
const FormatText Format = "txt"

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export renders the transcript and returns the content. Messages are
	// rendered in the order given, which is chronological.
	Export(title string, msgs []model.Message) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g. ".txt").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// For returns the exporter for the given format, or ErrUnsupportedFormat.
func For(format Format) (Exporter, error) {
	switch format {
	case FormatText:
		return &TextExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// headerRuleWidth is the width of the '=' rule under the title.
const headerRuleWidth = 50

// TextExporter renders a transcript as plain text: the title over a '=' rule,
// then each message as an "[AUTHOR] timestamp" line followed by its content.
type TextExporter struct{}

// NewTextExporter creates a plain-text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export implements Exporter.
func (e *TextExporter) Export(title string, msgs []model.Message) ([]byte, error) {
	var b strings.Builder

	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", headerRuleWidth))
	b.WriteString("\n\n")

	for _, m := range msgs {
		fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(m.Type.String()), formatTimestamp(m.Timestamp))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	return []byte(b.String()), nil
}

// FileExtension implements Exporter.
func (e *TextExporter) FileExtension() string { return ".txt" }

// MimeType implements Exporter.
func (e *TextExporter) MimeType() string { return "text/plain" }

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{OutputDir: "."}
}

// ToFile exports a transcript to "<title><ext>" in the output directory and
// returns the written path. The title is sanitized so it cannot escape the
// directory.
func ToFile(format Format, title string, msgs []model.Message, opts *Options) (string, error) {
	exporter, err := For(format)
	if err != nil {
		return "", err
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(title, msgs)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, sanitizeFilename(title)+exporter.FileExtension())
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// sanitizeFilename removes or replaces characters that are invalid in
// filenames.
func sanitizeFilename(s string) string {
	// Limit length
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	// Replace problematic characters (Windows and Unix)
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			// Replace control characters
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "conversation"
	}

	return string(result)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
