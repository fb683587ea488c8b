// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pdfchat/internal/commands"
	"github.com/jeranaias/pdfchat/internal/exchange"
	"github.com/jeranaias/pdfchat/internal/model"
	"github.com/jeranaias/pdfchat/internal/ui/components"
)

const emptyHint = "Open a PDF with ctrl+o, upload it with ctrl+u, then ask a question."

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.notice != nil {
		box := components.NewNoticeBox(m.theme, m.notice.Text, m.notice.IsError())
		box.Width, box.Height = m.width, m.height
		return box.View()
	}

	state := m.ctrl.Snapshot()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(state),
		m.viewport.View(),
		m.renderTyping(state),
		m.renderInput(),
		m.renderStatusBar(state),
	)
}

func (m Model) renderHeader(state exchange.State) string {
	h := components.NewHeader(m.theme)
	h.Width = m.width
	h.Turns = state.Transcript().Len()
	if doc, ok := state.Selected(); ok {
		h.Document = doc.Name
		switch {
		case state.Uploading():
			h.DocState = components.DocUploading
		case doc.Name == m.uploaded:
			h.DocState = components.DocUploaded
		default:
			h.DocState = components.DocSelected
		}
	}
	return h.View()
}

func (m Model) renderTyping(state exchange.State) string {
	switch {
	case state.Pending():
		return m.spinner.View() + " " + m.theme.TypingText.Render("Typing...")
	case state.Uploading():
		return m.spinner.View() + " " + m.theme.TypingText.Render("Uploading...")
	}
	return ""
}

func (m Model) renderInput() string {
	view := m.input.View()
	if m.mode == modePath {
		view = m.pathInput.View()
	}
	return m.theme.InputContainer.Width(m.width).Render(view)
}

func (m Model) renderStatusBar(state exchange.State) string {
	s := components.NewStatusBar(m.theme)
	s.Width = m.width
	s.Backend = m.opts.BackendURL
	s.Status = m.status
	if s.Status == "" && state.Pending() {
		s.Status = "Waiting for answer"
	}

	bindings := m.keys.ShortHelp()
	if m.mode == modePath {
		bindings = append(bindings[:0:0], m.keys.Submit, m.keys.Complete, m.keys.Cancel)
	}
	for _, b := range bindings {
		s.Shortcuts = append(s.Shortcuts, components.Shortcut{Key: b.Help().Key, Desc: b.Help().Desc})
	}
	return s.View()
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// updateViewport re-renders the transcript and scrolls to the newest turn.
func (m *Model) updateViewport() {
	state := m.ctrl.Snapshot()
	m.shownTurns = state.Transcript().Len()
	m.shownPending = state.Pending()
	m.viewport.SetContent(m.renderTranscript(state.Transcript()))
	m.viewport.GotoBottom()
}

// syncViewport redraws only when a turn was added or the pending flag
// flipped. Input edits leave the scroll position alone.
func (m *Model) syncViewport() {
	state := m.ctrl.Snapshot()
	if state.Transcript().Len() == m.shownTurns && state.Pending() == m.shownPending {
		return
	}
	m.updateViewport()
}

func (m *Model) renderTranscript(t model.Transcript) string {
	if t.IsEmpty() {
		return m.theme.Empty.Render(components.WordWrap(emptyHint, max(m.viewport.Width-2, 20)))
	}

	var render components.RenderFunc
	if m.opts.Markdown.Enabled() {
		render = m.opts.Markdown.Render
	}

	parts := make([]string, 0, t.Len())
	for _, turn := range t.Turns() {
		b := components.NewTurnBubble(turn, m.theme)
		b.Width = m.viewport.Width
		b.ShowTimestamp = m.opts.ShowTimestamps
		b.Failed = turn.Failed
		b.Render = render
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}

func helpText(r *commands.Registry) string {
	return "Commands\n\n" + strings.Join(r.HelpLines(), "\n")
}
