// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/pdfchat/internal/model"
)

// JSONExporter writes the transcript as a JSON document whose turns array
// has the same {role, content} shape the answer endpoint takes as history.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

type jsonDocument struct {
	Document   string       `json:"document,omitempty"`
	Backend    string       `json:"backend,omitempty"`
	ExportedAt time.Time    `json:"exported_at"`
	Turns      []model.Turn `json:"turns"`
}

// Export converts a session to indented JSON.
func (e *JSONExporter) Export(s Session) ([]byte, error) {
	if s.Transcript.IsEmpty() {
		return nil, ErrEmptyTranscript
	}
	return json.MarshalIndent(jsonDocument{
		Document:   s.Document,
		Backend:    s.Backend,
		ExportedAt: s.ExportedAt.UTC(),
		Turns:      s.Transcript.Turns(),
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
