// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/pdfchat/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports sessions to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a session to Markdown. Turn content is written as is since
// answers are already Markdown.
func (e *MarkdownExporter) Export(s Session) ([]byte, error) {
	if s.Transcript.IsEmpty() {
		return nil, ErrEmptyTranscript
	}

	title := s.Transcript.Title(60)
	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "title: %s\n", escapeYAML(title))
		if s.Document != "" {
			fmt.Fprintf(&sb, "document: %s\n", escapeYAML(s.Document))
		}
		if s.Backend != "" {
			fmt.Fprintf(&sb, "backend: %s\n", escapeYAML(s.Backend))
		}
		fmt.Fprintf(&sb, "turns: %d\n", s.Transcript.Len())
		fmt.Fprintf(&sb, "exported: %s\n", s.ExportedAt.Format(time.RFC3339))
		sb.WriteString("generator: pdfchat\n")
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(title))

	if e.options.IncludeMetadata && s.Document != "" {
		fmt.Fprintf(&sb, "- **Document**: %s\n", escapeMarkdown(s.Document))
		fmt.Fprintf(&sb, "- **Exported**: %s\n\n", formatTimestamp(s.ExportedAt))
	}

	turns := s.Transcript.Turns()
	for i, turn := range turns {
		e.writeTurn(&sb, turn)
		if i < len(turns)-1 {
			sb.WriteString("---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) writeTurn(sb *strings.Builder, turn model.Turn) {
	label := turn.Role.DisplayName()
	if e.options.IncludeTimestamps && !turn.Timestamp.IsZero() {
		fmt.Fprintf(sb, "### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(turn.Timestamp))
	} else {
		fmt.Fprintf(sb, "### %s\n\n", label)
	}
	sb.WriteString(strings.TrimSpace(turn.Content))
	sb.WriteString("\n\n")
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that would break a heading or list item.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var markdownEscaper = strings.NewReplacer(
	"#", "\\#",
	"*", "\\*",
	"_", "\\_",
	"[", "\\[",
	"]", "\\]",
)

// escapeYAML quotes a front matter value when it contains YAML syntax.
func escapeYAML(s string) string {
	if !strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") && !strings.HasPrefix(s, " ") && !strings.HasSuffix(s, " ") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return "\"" + s + "\""
}
