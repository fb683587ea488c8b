// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders assistant answers for the terminal with glamour.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Standard glamour style names.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// StyleFor picks a glamour style for a terminal. Terminals without colour
// get the plain style.
func StyleFor(profile termenv.Profile, dark bool) string {
	switch {
	case profile == termenv.Ascii:
		return StyleNoTTY
	case dark:
		return StyleDark
	default:
		return StyleLight
	}
}

// Renderer turns Markdown into styled terminal text. A disabled Renderer
// returns its input unchanged. Renderers are built lazily per wrap width
// and reused.
//
// Renderer is safe for concurrent use.
type Renderer struct {
	enabled bool
	style   string

	mu      sync.Mutex
	byWidth map[int]*glamour.TermRenderer
}

// New creates a renderer using the named glamour style.
func New(enabled bool, style string) *Renderer {
	if style == "" {
		style = StyleNoTTY
	}
	return &Renderer{
		enabled: enabled,
		style:   style,
		byWidth: make(map[int]*glamour.TermRenderer),
	}
}

// Enabled reports whether rendering is on.
func (r *Renderer) Enabled() bool {
	return r != nil && r.enabled
}

// Render renders content wrapped at width columns. On any rendering error
// the raw content is returned so an answer is never lost.
func (r *Renderer) Render(content string, width int) string {
	if !r.Enabled() || strings.TrimSpace(content) == "" {
		return content
	}

	tr, err := r.forWidth(width)
	if err != nil {
		return content
	}
	out, err := tr.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) forWidth(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.byWidth[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.byWidth[width] = tr
	return tr, nil
}
