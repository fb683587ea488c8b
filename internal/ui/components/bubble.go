// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pdfchat/internal/model"
	"github.com/jeranaias/pdfchat/internal/ui/styles"
	"github.com/jeranaias/pdfchat/internal/util"
)

// minBubbleWidth keeps bubbles readable in very narrow terminals.
const minBubbleWidth = 20

// RenderFunc renders assistant content for a given width. It returns the
// content unchanged when it cannot do better.
type RenderFunc func(content string, width int) string

// TurnBubble draws one transcript turn.
type TurnBubble struct {
	Turn          model.Turn
	Width         int
	ShowTimestamp bool

	// Failed draws the turn as a failed answer.
	Failed bool

	// Render formats assistant content; nil means plain word wrap.
	Render RenderFunc

	theme *styles.Theme
}

// NewTurnBubble creates a bubble for turn.
func NewTurnBubble(turn model.Turn, theme *styles.Theme) *TurnBubble {
	return &TurnBubble{Turn: turn, Width: 80, theme: theme}
}

// View renders the label line and the bubble.
func (b *TurnBubble) View() string {
	width := b.Width
	if width < minBubbleWidth+8 {
		width = minBubbleWidth + 8
	}
	// Border and padding take four columns, the user margin four more.
	contentWidth := width - 8

	label := b.theme.AssistantLabel.Render(b.Turn.Role.DisplayName())
	style := b.theme.AssistantBubble
	switch {
	case b.Turn.IsUser():
		label = b.theme.UserLabel.Render(b.Turn.Role.DisplayName())
		style = b.theme.UserBubble
	case b.Failed:
		label = b.theme.AssistantLabel.Render(b.Turn.Role.DisplayName()) + " " +
			b.theme.NoticeError.Render(styles.MarkError)
		style = b.theme.FailedBubble
	}
	if b.ShowTimestamp && !b.Turn.Timestamp.IsZero() {
		label += " " + b.theme.Timestamp.Render(b.Turn.Timestamp.Format("15:04"))
	}

	var body string
	if !b.Turn.IsUser() && !b.Failed && b.Render != nil {
		body = strings.TrimRight(b.Render(b.Turn.Content, contentWidth), "\n")
	} else {
		body = WordWrap(b.Turn.Content, contentWidth)
	}
	if body == "" {
		body = " "
	}

	bubbleWidth := maxLineWidth(body) + 2
	if bubbleWidth > contentWidth+2 {
		bubbleWidth = contentWidth + 2
	}
	bubble := style.Width(bubbleWidth).Render(body)

	if b.Turn.IsUser() {
		label = lipgloss.NewStyle().MarginLeft(4).Render(label)
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// =============================================================================
// HELPERS
// =============================================================================

// WordWrap wraps text on spaces to at most width columns per line. Words
// longer than width are kept whole. Existing line breaks are preserved and
// lines that already fit are left as they are.
func WordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		if util.StringWidth(line) <= width {
			result.WriteString(strings.TrimRight(line, " \t"))
			continue
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if util.StringWidth(current)+1+util.StringWidth(word) <= width {
				current += " " + word
				continue
			}
			result.WriteString(current)
			result.WriteString("\n")
			current = word
		}
		result.WriteString(current)
	}
	return result.String()
}

func maxLineWidth(text string) int {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		if w := lipgloss.Width(line); w > widest {
			widest = w
		}
	}
	return widest
}
