// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestNewThemeForProfile(t *testing.T) {
	theme := NewThemeForProfile(termenv.Ascii, true)
	assert.True(t, theme.IsDark)
	assert.False(t, theme.HasColor())

	theme = NewThemeForProfile(termenv.TrueColor, false)
	assert.True(t, theme.HasColor())
}

func TestTheme_FailedBubbleKeepsShape(t *testing.T) {
	theme := NewThemeForProfile(termenv.Ascii, true)
	assert.Equal(t, theme.AssistantBubble.GetBorderStyle(), theme.FailedBubble.GetBorderStyle())
	assert.Equal(t, FailedBubbleFg, theme.FailedBubble.GetForeground())
}

func TestTheme_RendersText(t *testing.T) {
	theme := NewThemeForProfile(termenv.Ascii, true)
	out := theme.NoticeBox.Render(theme.NoticeError.Render("Failed to upload PDF"))
	assert.Contains(t, out, "Failed to upload PDF")
}
