// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pdfchat/internal/ui/styles"
	"github.com/jeranaias/pdfchat/internal/util"
)

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: a status message on the left and key hints
// on the right.
type StatusBar struct {
	Status    string
	Backend   string
	Shortcuts []Shortcut
	Width     int

	theme *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the bar. Shortcuts are dropped from the end until the line
// fits, then the backend address, then the status is truncated.
func (s *StatusBar) View() string {
	width := s.Width
	if width <= 0 {
		width = 80
	}

	left := s.Status
	if s.Backend != "" {
		if left != "" {
			left += "  "
		}
		left += s.Backend
	}

	shortcuts := s.Shortcuts
	for {
		right := s.renderShortcuts(shortcuts)
		gap := width - util.StringWidth(left) - lipgloss.Width(right)
		if gap >= 2 {
			return s.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
		}
		if len(shortcuts) == 0 {
			break
		}
		shortcuts = shortcuts[:len(shortcuts)-1]
	}

	left = s.Status
	if util.StringWidth(left) > width {
		left = util.TruncateWidth(left, width)
	}
	return s.theme.StatusBar.Render(left)
}

func (s *StatusBar) renderShortcuts(shortcuts []Shortcut) string {
	parts := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
