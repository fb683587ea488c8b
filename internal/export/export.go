// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jeranaias/pdfchat/internal/model"
	"github.com/jeranaias/pdfchat/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Session is what gets exported: the transcript plus where it came from.
type Session struct {
	Transcript model.Transcript
	Document   string
	Backend    string
	ExportedAt time.Time
}

// Exporter renders a Session in one file format.
type Exporter interface {
	// Export converts the session to the target format.
	Export(s Session) ([]byte, error)

	// FileExtension returns the file extension, e.g. ".md".
	FileExtension() string

	// MimeType returns the MIME type of the format.
	MimeType() string
}

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("transcript has no turns")

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// IncludeMetadata adds a front matter block and a session section.
	IncludeMetadata bool

	// IncludeTimestamps adds a time to each turn heading.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{IncludeMetadata: true}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ForPath picks an exporter from the extension of path. Anything other than
// .json is written as Markdown.
func ForPath(path string, opts *Options) Exporter {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONExporter()
	}
	return NewMarkdownExporter(opts)
}

// WriteFile exports s to path, choosing the format from the extension. A
// path without an extension gets the exporter's. The final path is
// returned.
func WriteFile(path string, s Session, opts *Options) (string, error) {
	exporter := ForPath(path, opts)
	if filepath.Ext(path) == "" {
		path += exporter.FileExtension()
	}
	if s.ExportedAt.IsZero() {
		s.ExportedAt = time.Now()
	}

	content, err := exporter.Export(s)
	if err != nil {
		return "", errors.Wrap(err, "export failed")
	}
	if err := util.AtomicWriteFile(path, content, 0o644); err != nil {
		return "", errors.Wrap(err, "write file")
	}
	return path, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
