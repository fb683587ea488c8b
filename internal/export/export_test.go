// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pdfchat/internal/model"
)

func transcriptOf(turns ...model.Turn) model.Transcript {
	tr := model.NewTranscript()
	for _, turn := range turns {
		tr, _ = tr.Append(turn)
	}
	return tr
}

func sampleSession() Session {
	return Session{
		Transcript: transcriptOf(
			model.NewUserTurn("What is the capital of France?"),
			model.NewAssistantTurn("**Paris**"),
		),
		Document:   "geo: europe.pdf",
		Backend:    "http://127.0.0.1:8000",
		ExportedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleSession())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "title: What is the capital of France?\n")
	assert.Contains(t, md, "document: \"geo: europe.pdf\"\n")
	assert.Contains(t, md, "turns: 2\n")
	assert.Contains(t, md, "exported: 2025-03-01T12:00:00Z\n")
	assert.Contains(t, md, "# What is the capital of France?\n")
	assert.Contains(t, md, "### You\n\nWhat is the capital of France?\n")
	assert.Contains(t, md, "### Assistant\n\n**Paris**\n")
	assert.Less(t, strings.Index(md, "### You"), strings.Index(md, "### Assistant"))
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	out, err := NewMarkdownExporter(&Options{}).Export(sampleSession())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "# What is the capital"))
	assert.NotContains(t, string(out), "generator:")
}

func TestMarkdownExporter_Timestamps(t *testing.T) {
	s := sampleSession()
	out, err := NewMarkdownExporter(&Options{IncludeTimestamps: true}).Export(s)
	require.NoError(t, err)

	first, _ := s.Transcript.At(0)
	assert.Contains(t, string(out), "### You <sub>"+first.Timestamp.Format("15:04:05")+"</sub>")
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter().Export(sampleSession())
	require.NoError(t, err)

	var doc struct {
		Document string `json:"document"`
		Turns    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "geo: europe.pdf", doc.Document)
	require.Len(t, doc.Turns, 2)
	assert.Equal(t, "user", doc.Turns[0].Role)
	assert.Equal(t, "**Paris**", doc.Turns[1].Content)
}

func TestExport_EmptyTranscript(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(Session{})
	assert.ErrorIs(t, err, ErrEmptyTranscript)
	_, err = NewJSONExporter().Export(Session{})
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		wantPath string
		wantJSON bool
	}{
		{"markdown", filepath.Join(dir, "chat.md"), filepath.Join(dir, "chat.md"), false},
		{"json", filepath.Join(dir, "chat.JSON"), filepath.Join(dir, "chat.JSON"), true},
		{"no extension", filepath.Join(dir, "chat"), filepath.Join(dir, "chat.md"), false},
		{"nested dir", filepath.Join(dir, "a", "b", "chat.json"), filepath.Join(dir, "a", "b", "chat.json"), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := WriteFile(tc.path, sampleSession(), nil)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPath, got)

			data, err := os.ReadFile(got)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJSON, json.Valid(data))
		})
	}
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"a: b"`, escapeYAML("a: b"))
	assert.Equal(t, `"line\nbreak"`, escapeYAML("line\nbreak"))
}
