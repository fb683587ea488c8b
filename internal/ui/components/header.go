// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pdfchat/internal/ui/styles"
	"github.com/jeranaias/pdfchat/internal/util"
)

// =============================================================================
// DOCUMENT STATE
// =============================================================================

// DocState is where the document stands relative to the backend.
type DocState int

const (
	DocNone      DocState = iota // nothing selected
	DocSelected                  // selected, not yet uploaded
	DocUploading                 // upload running
	DocUploaded                  // last upload succeeded
)

// String returns the short label shown in the header.
func (d DocState) String() string {
	switch d {
	case DocSelected:
		return "not uploaded"
	case DocUploading:
		return "uploading"
	case DocUploaded:
		return "ready"
	default:
		return "no document"
	}
}

// =============================================================================
// HEADER
// =============================================================================

// Header is the title line above the transcript.
type Header struct {
	Title    string
	Document string
	DocState DocState
	Turns    int
	Width    int

	theme *styles.Theme
}

// NewHeader creates a header with the default title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Title: "pdfchat", Width: 80, theme: theme}
}

// View renders the header on one line, shortening the document name first
// when space runs out.
func (h *Header) View() string {
	width := h.Width
	if width <= 0 {
		width = 80
	}

	brand := h.theme.HeaderBrand.Render(h.Title)
	meta := h.theme.HeaderMeta.Render(fmt.Sprintf("%d turns", h.Turns))
	if h.Turns == 1 {
		meta = h.theme.HeaderMeta.Render("1 turn")
	}

	// Padding(0, 1) plus two separators.
	room := width - 2 - lipgloss.Width(brand) - lipgloss.Width(meta) - 6
	doc := h.renderDocument(room)

	parts := []string{brand}
	if doc != "" {
		parts = append(parts, doc)
	}
	parts = append(parts, meta)
	line := strings.Join(parts, h.theme.HeaderMeta.Render(" | "))

	return h.theme.Header.Width(width).MaxWidth(width).MaxHeight(1).Render(line)
}

func (h *Header) renderDocument(room int) string {
	if h.DocState == DocNone || h.Document == "" {
		return h.theme.HeaderMeta.Render(DocNone.String())
	}

	mark, style := styles.MarkPending, h.theme.DocPending
	if h.DocState == DocUploaded {
		mark, style = styles.MarkOK, h.theme.DocReady
	}
	suffix := " " + mark
	if h.DocState == DocSelected {
		suffix = " (" + h.DocState.String() + ")"
	}

	name := util.TruncateWidth(h.Document, room-util.StringWidth(suffix))
	if name == "" {
		return style.Render(mark)
	}
	return style.Render(name + suffix)
}
