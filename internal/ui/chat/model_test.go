// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pdfchat/internal/backend"
	"github.com/jeranaias/pdfchat/internal/exchange"
	"github.com/jeranaias/pdfchat/internal/model"
	"github.com/jeranaias/pdfchat/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeBackend struct {
	mu        sync.Mutex
	questions []string
	histories [][]model.Turn
	ingested  []string
	answer    string
	askErr    error
	ingestErr error
}

func (f *fakeBackend) Ingest(ctx context.Context, doc backend.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ingested = append(f.ingested, doc.Name)
	return f.ingestErr
}

func (f *fakeBackend) Ask(ctx context.Context, question string, history []model.Turn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, question)
	f.histories = append(f.histories, history)
	return f.answer, f.askErr
}

func (f *fakeBackend) asks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.questions)
}

func (f *fakeBackend) ingests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ingested)
}

func newTestModel(t *testing.T, fb *fakeBackend, opts Options) (Model, *exchange.Controller) {
	t.Helper()
	ctrl := exchange.NewController(fb, nil)
	opts.BackendURL = "http://127.0.0.1:8000"
	opts.MaxBytes = 1 << 20
	opts.Extensions = []string{".pdf"}
	m := New(ctrl, styles.NewThemeForProfile(termenv.Ascii, true), opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), ctrl
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// run executes cmd, expanding batches, and feeds every resulting message
// except spinner ticks back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))
	return path
}

// =============================================================================
// ASK
// =============================================================================

func TestAskFlow(t *testing.T) {
	fb := &fakeBackend{answer: "Paris."}
	m, ctrl := newTestModel(t, fb, Options{})

	m = typeText(t, m, "What is the capital of France?")
	assert.Equal(t, "What is the capital of France?", ctrl.Snapshot().Input())

	m, cmd := press(t, m, enter())
	require.NotNil(t, cmd)

	s := ctrl.Snapshot()
	assert.True(t, s.Pending())
	assert.Empty(t, s.Input())
	assert.Empty(t, m.input.Value())
	require.Equal(t, 1, s.Transcript().Len())
	assert.Contains(t, m.View(), "Typing...")

	m = run(t, m, cmd)

	s = ctrl.Snapshot()
	assert.False(t, s.Pending())
	require.Equal(t, 2, s.Transcript().Len())
	last, _ := s.Transcript().Last()
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.Equal(t, "Paris.", last.Content)

	require.Len(t, fb.histories, 1)
	require.Len(t, fb.histories[0], 1)
	assert.Equal(t, "What is the capital of France?", fb.histories[0][0].Content)

	view := m.View()
	assert.Contains(t, view, "Paris.")
	assert.NotContains(t, view, "Typing...")
}

func TestBlankQuestionIsIgnored(t *testing.T) {
	fb := &fakeBackend{answer: "x"}
	m, ctrl := newTestModel(t, fb, Options{})

	m = typeText(t, m, "   ")
	m, cmd := press(t, m, enter())

	assert.Nil(t, cmd)
	assert.Equal(t, "   ", m.input.Value())
	assert.True(t, ctrl.Snapshot().Transcript().IsEmpty())
	assert.False(t, ctrl.Snapshot().Pending())
	assert.Equal(t, 0, fb.asks())
}

func TestSubmitWhilePending(t *testing.T) {
	fb := &fakeBackend{answer: "first"}
	m, ctrl := newTestModel(t, fb, Options{})

	m = typeText(t, m, "one")
	m, first := press(t, m, enter())
	require.NotNil(t, first)

	m = typeText(t, m, "two")
	m, second := press(t, m, enter())
	assert.Nil(t, second)
	assert.Equal(t, "two", m.input.Value())
	assert.Equal(t, 1, ctrl.Snapshot().Transcript().Len())

	m = run(t, m, first)
	assert.Equal(t, 2, ctrl.Snapshot().Transcript().Len())
	assert.Equal(t, 1, fb.asks())
}

func TestFailedAnswerShowsErrorText(t *testing.T) {
	fb := &fakeBackend{askErr: errors.New("connection refused")}
	m, ctrl := newTestModel(t, fb, Options{})

	m = typeText(t, m, "hello")
	m, cmd := press(t, m, enter())
	m = run(t, m, cmd)

	last, ok := ctrl.Snapshot().Transcript().Last()
	require.True(t, ok)
	assert.Equal(t, exchange.AnswerErrorText, last.Content)
	assert.Contains(t, m.View(), exchange.AnswerErrorText)
	assert.Contains(t, m.View(), styles.MarkError)
}

func TestAnswerMatchingErrorTextIsNotMarkedFailed(t *testing.T) {
	fb := &fakeBackend{answer: exchange.AnswerErrorText}
	m, _ := newTestModel(t, fb, Options{})

	m = typeText(t, m, "quote the log line")
	m, cmd := press(t, m, enter())
	m = run(t, m, cmd)

	assert.Contains(t, m.View(), exchange.AnswerErrorText)
	assert.NotContains(t, m.View(), styles.MarkError)
}

func TestStaleAnswerIsIgnored(t *testing.T) {
	m, ctrl := newTestModel(t, &fakeBackend{answer: "x"}, Options{})

	next, _ := m.Update(AnswerMsg{Err: exchange.ErrStaleResult})
	assert.True(t, ctrl.Snapshot().Transcript().IsEmpty())
	assert.Contains(t, next.(Model).View(), "Open a PDF")
}

func TestUnknownSlashIsAQuestion(t *testing.T) {
	fb := &fakeBackend{answer: "a hosts file"}
	m, _ := newTestModel(t, fb, Options{})

	m = typeText(t, m, "/etc/hosts is what?")
	m, cmd := press(t, m, enter())
	run(t, m, cmd)

	require.Equal(t, 1, fb.asks())
	assert.Equal(t, "/etc/hosts is what?", fb.questions[0])
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestUploadWithoutDocument(t *testing.T) {
	fb := &fakeBackend{}
	m, ctrl := newTestModel(t, fb, Options{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Nil(t, cmd)
	require.NotNil(t, m.notice)
	assert.Equal(t, exchange.NoticeSelectDocument, m.notice.Text)
	assert.Contains(t, m.View(), exchange.NoticeSelectDocument)
	assert.Equal(t, 0, fb.ingests())
	assert.False(t, ctrl.Snapshot().Uploading())

	// Keys other than dismiss are swallowed.
	m = typeText(t, m, "x")
	assert.Empty(t, m.input.Value())
	require.NotNil(t, m.notice)

	m, _ = press(t, m, enter())
	assert.Nil(t, m.notice)
}

func TestOpenAndUpload(t *testing.T) {
	fb := &fakeBackend{}
	m, ctrl := newTestModel(t, fb, Options{})
	path := writePDF(t, "paper.pdf")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.Equal(t, modePath, m.mode)
	m.pathInput.SetValue(path)
	m, _ = press(t, m, enter())
	assert.Equal(t, modeChat, m.mode)

	doc, ok := ctrl.Snapshot().Selected()
	require.True(t, ok)
	assert.Equal(t, "paper.pdf", doc.Name)
	assert.Contains(t, m.View(), "paper.pdf (not uploaded)")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	require.NotNil(t, cmd)
	assert.True(t, ctrl.Snapshot().Uploading())

	m = run(t, m, cmd)
	assert.Equal(t, []string{"paper.pdf"}, fb.ingested)
	require.NotNil(t, m.notice)
	assert.Equal(t, exchange.NoticeUploadOK, m.notice.Text)
	assert.False(t, m.notice.IsError())
	assert.True(t, ctrl.Snapshot().Transcript().IsEmpty())

	m, _ = press(t, m, enter())
	assert.Contains(t, m.View(), "paper.pdf "+styles.MarkOK)
}

func TestUploadFailure(t *testing.T) {
	fb := &fakeBackend{ingestErr: errors.New("boom")}
	m, ctrl := newTestModel(t, fb, Options{})
	ctrl.SelectDocument(backend.Document{Name: "paper.pdf", Data: []byte("%PDF")})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = run(t, m, cmd)

	require.NotNil(t, m.notice)
	assert.Equal(t, exchange.NoticeUploadFailed, m.notice.Text)
	assert.True(t, m.notice.IsError())
	_, ok := ctrl.Snapshot().Selected()
	assert.True(t, ok)
}

func TestOpenRejectsBadPath(t *testing.T) {
	fb := &fakeBackend{}
	m, ctrl := newTestModel(t, fb, Options{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m.pathInput.SetValue(filepath.Join(t.TempDir(), "missing.pdf"))
	m, _ = press(t, m, enter())

	require.NotNil(t, m.notice)
	assert.True(t, m.notice.IsError())
	assert.Equal(t, modePath, m.mode)
	_, ok := ctrl.Snapshot().Selected()
	assert.False(t, ok)

	m, _ = press(t, m, enter())
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeChat, m.mode)
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestOpenCommand(t *testing.T) {
	fb := &fakeBackend{}
	m, ctrl := newTestModel(t, fb, Options{})
	path := writePDF(t, "notes.pdf")

	m = typeText(t, m, "/open "+path)
	m, _ = press(t, m, enter())

	doc, ok := ctrl.Snapshot().Selected()
	require.True(t, ok)
	assert.Equal(t, "notes.pdf", doc.Name)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, 0, fb.asks())
}

func TestExportCommand(t *testing.T) {
	fb := &fakeBackend{answer: "Paris."}
	m, _ := newTestModel(t, fb, Options{})

	m = typeText(t, m, "capital?")
	m, cmd := press(t, m, enter())
	m = run(t, m, cmd)

	out := filepath.Join(t.TempDir(), "chat.md")
	m = typeText(t, m, "/export "+out)
	m, cmd = press(t, m, enter())
	require.NotNil(t, cmd)
	m = run(t, m, cmd)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Paris.")
	assert.Contains(t, m.status, "Exported to")
}

func TestHistoryAndHelpCommands(t *testing.T) {
	fb := &fakeBackend{}
	m, _ := newTestModel(t, fb, Options{})

	m = typeText(t, m, "/history")
	m, _ = press(t, m, enter())
	assert.Equal(t, "0 turns in this conversation", m.status)

	m = typeText(t, m, "/help")
	m, _ = press(t, m, enter())
	require.NotNil(t, m.notice)
	assert.Contains(t, m.notice.Text, "/upload")

	m, _ = press(t, m, enter())
	m = typeText(t, m, "/open")
	m, _ = press(t, m, enter())
	assert.Contains(t, m.status, "usage")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{}, Options{})

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// =============================================================================
// CLIPBOARD AND COMPLETION
// =============================================================================

func TestCopyLastAnswer(t *testing.T) {
	var copied string
	fb := &fakeBackend{answer: "Paris."}
	m, _ := newTestModel(t, fb, Options{Clipboard: func(s string) error {
		copied = s
		return nil
	}})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Nothing to copy yet", m.status)

	m = typeText(t, m, "capital?")
	m, cmd := press(t, m, enter())
	m = run(t, m, cmd)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Paris.", copied)
	assert.Equal(t, "Copied last answer", m.status)
}

func TestTabCompletesCommand(t *testing.T) {
	m, ctrl := newTestModel(t, &fakeBackend{}, Options{})

	m = typeText(t, m, "/up")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/upload", m.input.Value())
	assert.Equal(t, "/upload", ctrl.Snapshot().Input())
}

func TestStateChangedRedraws(t *testing.T) {
	m, ctrl := newTestModel(t, &fakeBackend{answer: "from elsewhere"}, Options{})

	_, _, err := ctrl.SubmitQuestion(context.Background(), "outside")
	require.NoError(t, err)

	next, _ := m.Update(StateChangedMsg{})
	assert.Contains(t, next.(Model).View(), "from elsewhere")
}

func TestTypingKeepsScrollPosition(t *testing.T) {
	fb := &fakeBackend{answer: strings.Repeat("line\n", 10) + "end"}
	m, ctrl := newTestModel(t, fb, Options{})

	for i := 0; i < 5; i++ {
		m = typeText(t, m, fmt.Sprintf("question %d", i))
		var cmd tea.Cmd
		m, cmd = press(t, m, enter())
		m = run(t, m, cmd)
	}
	require.Equal(t, 10, ctrl.Snapshot().Transcript().Len())
	require.True(t, m.viewport.AtBottom())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	require.False(t, m.viewport.AtBottom())
	offset := m.viewport.YOffset

	m = typeText(t, m, "more")
	next, _ := m.Update(StateChangedMsg{})
	m = next.(Model)
	assert.Equal(t, offset, m.viewport.YOffset)
	assert.Equal(t, "more", ctrl.Snapshot().Input())

	// A new turn still scrolls to the bottom.
	_, _, err := ctrl.SubmitQuestion(context.Background(), "outside")
	require.NoError(t, err)
	next, _ = m.Update(StateChangedMsg{})
	assert.True(t, next.(Model).viewport.AtBottom())
}
