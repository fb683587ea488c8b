// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styles of the chat screen. It records the terminal's
// colour capability when created.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Header
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderMeta  lipgloss.Style
	DocReady    lipgloss.Style
	DocPending  lipgloss.Style

	// Transcript
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	FailedBubble    lipgloss.Style
	Timestamp       lipgloss.Style
	Empty           lipgloss.Style

	// Typing indicator
	Spinner    lipgloss.Style
	TypingText lipgloss.Style

	// Input and prompts
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	PathPrompt     lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Blocking notices
	NoticeBox   lipgloss.Style
	NoticeInfo  lipgloss.Style
	NoticeError lipgloss.Style
	NoticeHint  lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	return NewThemeForProfile(termenv.ColorProfile(), termenv.HasDarkBackground())
}

// NewThemeForProfile creates a theme for an explicit colour profile.
func NewThemeForProfile(profile termenv.Profile, dark bool) *Theme {
	t := &Theme{IsDark: dark, ColorProfile: profile}
	t.initStyles()
	return t
}

// HasColor reports whether the terminal renders colour at all.
func (t *Theme) HasColor() bool {
	return t.ColorProfile != termenv.Ascii
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.HeaderMeta = lipgloss.NewStyle().Foreground(TextSecondary)
	t.DocReady = lipgloss.NewStyle().Foreground(Emerald)
	t.DocPending = lipgloss.NewStyle().Foreground(Amber)

	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(Purple)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.FailedBubble = t.AssistantBubble.
		Foreground(FailedBubbleFg).
		BorderForeground(Rose)

	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.Empty = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.Spinner = lipgloss.NewStyle().Foreground(Purple)
	t.TypingText = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.PathPrompt = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextSecondary)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.NoticeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Overlay).
		Padding(1, 3).
		Align(lipgloss.Center)
	t.NoticeInfo = lipgloss.NewStyle().Bold(true).Foreground(Emerald)
	t.NoticeError = lipgloss.NewStyle().Bold(true).Foreground(Rose)
	t.NoticeHint = lipgloss.NewStyle().Foreground(TextMuted)
}
