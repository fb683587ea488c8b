// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pdfchat/internal/ui/styles"
)

// NoticeHint is shown under every blocking notice.
const NoticeHint = "Press Enter to continue"

// NoticeBox is a modal message that must be acknowledged.
type NoticeBox struct {
	Text   string
	IsErr  bool
	Width  int
	Height int

	theme *styles.Theme
}

// NewNoticeBox creates a notice for the given screen size.
func NewNoticeBox(theme *styles.Theme, text string, isErr bool) *NoticeBox {
	return &NoticeBox{Text: text, IsErr: isErr, theme: theme}
}

// View renders the box centred on a screen of Width by Height.
func (n *NoticeBox) View() string {
	textStyle, mark := n.theme.NoticeInfo, styles.MarkOK
	if n.IsErr {
		textStyle, mark = n.theme.NoticeError, styles.MarkError
	}

	inner := 60
	if n.Width > 0 && n.Width-10 < inner {
		inner = n.Width - 10
	}
	if inner < 10 {
		inner = 10
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		textStyle.Render(mark+" "+WordWrap(n.Text, inner)),
		"",
		n.theme.NoticeHint.Render(NoticeHint),
	)
	box := n.theme.NoticeBox.Render(body)

	if n.Width <= 0 || n.Height <= 0 {
		return box
	}
	return lipgloss.Place(n.Width, n.Height, lipgloss.Center, lipgloss.Center, box)
}
