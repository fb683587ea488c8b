// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jeranaias/pdfchat/internal/backend"
	"github.com/jeranaias/pdfchat/internal/commands"
	"github.com/jeranaias/pdfchat/internal/exchange"
	"github.com/jeranaias/pdfchat/internal/export"
	"github.com/jeranaias/pdfchat/internal/ui/markdown"
	"github.com/jeranaias/pdfchat/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Model.
type Options struct {
	// BackendURL is shown in the status bar and written into exports.
	BackendURL string

	// MaxBytes and Extensions constrain documents opened from the screen.
	MaxBytes   int64
	Extensions []string

	ShowTimestamps bool

	// Markdown renders assistant turns; nil shows them as plain text.
	Markdown *markdown.Renderer

	// Clipboard receives copied answers. Defaults to the system clipboard.
	Clipboard func(string) error

	// Context bounds every network call started from the screen.
	Context context.Context

	Logger *zap.Logger
}

// =============================================================================
// MODEL
// =============================================================================

type inputMode int

const (
	modeChat inputMode = iota
	modePath
)

// Layout rows outside the viewport: header, typing line, input border,
// input line and status bar.
const reservedRows = 5

// Model is the chat screen.
type Model struct {
	ctrl   *exchange.Controller
	opts   Options
	theme  *styles.Theme
	keys   KeyMap
	logger *zap.Logger

	registry  *commands.Registry
	parser    *commands.Parser
	completer *commands.Completer

	viewport  viewport.Model
	input     textinput.Model
	pathInput textinput.Model
	spinner   spinner.Model
	spinning  bool

	// Transcript length and pending flag as last drawn into the viewport.
	shownTurns   int
	shownPending bool

	mode     inputMode
	notice   *exchange.Notice
	status   string
	uploaded string

	width  int
	height int
}

// New creates the chat screen over ctrl.
func New(ctrl *exchange.Controller, theme *styles.Theme, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "Ask a question about the document, or /help"
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.Focus()

	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/document.pdf"
	pathInput.Prompt = "PDF: "
	pathInput.PromptStyle = theme.PathPrompt

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	registry := commands.NewRegistry()

	return Model{
		ctrl:      ctrl,
		opts:      opts,
		theme:     theme,
		keys:      DefaultKeyMap(),
		logger:    opts.Logger.Named("tui"),
		registry:  registry,
		parser:    commands.NewParser(registry),
		completer: commands.NewCompleter(registry, opts.Extensions),
		viewport:  viewport.New(80, 20),
		input:     input,
		pathInput: pathInput,
		spinner:   sp,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case AnswerMsg:
		if msg.Err != nil {
			m.logger.Debug("answer dropped", zap.Error(msg.Err))
			return m, nil
		}
		m.status = ""
		m.updateViewport()
		return m, nil

	case UploadDoneMsg:
		if msg.Err == nil {
			m.uploaded = msg.Name
			m.status = "Uploaded " + msg.Name
		} else {
			m.status = "Upload failed"
			m.logger.Debug("upload reported", zap.Error(msg.Err))
		}
		notice := msg.Notice
		m.notice = &notice
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.notice = &exchange.Notice{Level: exchange.NoticeError, Text: "Export failed: " + msg.Err.Error()}
			return m, nil
		}
		m.status = "Exported to " + msg.Path
		return m, nil

	case StateChangedMsg:
		m.syncViewport()
		spin := m.startSpinner()
		return m, spin

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.forwardInput(msg)
}

// View renders the screen.
func (m Model) View() string {
	return m.render()
}

// =============================================================================
// HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.viewport.Width = max(msg.Width, 1)
	m.viewport.Height = max(msg.Height-reservedRows, 1)

	inputWidth := max(msg.Width-len(m.input.Prompt)-2, 10)
	m.input.Width = inputWidth
	m.pathInput.Width = inputWidth

	m.updateViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// A notice blocks everything until it is dismissed.
	if m.notice != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.notice = nil
		}
		return m, nil
	}

	if m.mode == modePath {
		return m.handlePathKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.OpenDocument):
		return m.enterPathMode()

	case key.Matches(msg, m.keys.Upload):
		return m.startUpload()

	case key.Matches(msg, m.keys.Copy):
		m.copyLastAnswer()
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		m.input.SetValue(m.complete(m.input.Value()))
		m.input.CursorEnd()
		m.ctrl.SetInput(m.input.Value())
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	return m.forwardInput(msg)
}

func (m Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.leavePathMode()

	case key.Matches(msg, m.keys.Submit):
		path := m.pathInput.Value()
		if m.selectDocument(path) {
			return m.leavePathMode()
		}
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		line := m.complete(commands.CmdOpen + " " + m.pathInput.Value())
		m.pathInput.SetValue(line[len(commands.CmdOpen)+1:])
		m.pathInput.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// forwardInput passes msg to the active text input and mirrors the chat
// input into the controller.
func (m Model) forwardInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.mode == modePath {
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.ctrl.SetInput(after)
	}
	return m, cmd
}

// =============================================================================
// ASK
// =============================================================================

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()

	if res := m.parser.Parse(text); res.IsCommand {
		m.input.Reset()
		m.ctrl.SetInput("")
		return m.runCommand(res)
	}

	req, ok, err := m.ctrl.Begin(text)
	if errors.Is(err, exchange.ErrExchangeInFlight) {
		m.status = "Still waiting for the previous answer"
		return m, nil
	}
	if !ok {
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	m.updateViewport()
	spin := m.startSpinner()
	return m, tea.Batch(m.askCmd(req), spin)
}

func (m Model) askCmd(req exchange.Request) tea.Cmd {
	ctrl, ctx := m.ctrl, m.opts.Context
	return func() tea.Msg {
		turn, err := ctrl.Complete(ctx, req)
		return AnswerMsg{Turn: turn, Err: err}
	}
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func (m Model) enterPathMode() (tea.Model, tea.Cmd) {
	m.mode = modePath
	m.input.Blur()
	m.pathInput.Reset()
	if doc, ok := m.ctrl.Snapshot().Selected(); ok {
		m.pathInput.Placeholder = doc.Name
	}
	return m, m.pathInput.Focus()
}

func (m Model) leavePathMode() (tea.Model, tea.Cmd) {
	m.mode = modeChat
	m.pathInput.Blur()
	return m, m.input.Focus()
}

// selectDocument loads path and hands it to the controller. On failure it
// raises an error notice and returns false.
func (m *Model) selectDocument(path string) bool {
	doc, err := backend.LoadDocument(path, m.opts.MaxBytes, m.opts.Extensions)
	if err != nil {
		m.notice = &exchange.Notice{Level: exchange.NoticeError, Text: err.Error()}
		return false
	}
	m.ctrl.SelectDocument(doc)
	m.uploaded = ""
	m.status = fmt.Sprintf("Selected %s. Press %s to upload", doc.Name, m.keys.Upload.Help().Key)
	return true
}

func (m Model) startUpload() (tea.Model, tea.Cmd) {
	doc, err := m.ctrl.BeginUpload()
	if err != nil {
		notice := exchange.NoticeFor(err)
		m.notice = &notice
		return m, nil
	}

	m.status = "Uploading " + doc.Name
	spin := m.startSpinner()
	return m, tea.Batch(m.uploadCmd(doc), spin)
}

func (m Model) uploadCmd(doc backend.Document) tea.Cmd {
	ctrl, ctx := m.ctrl, m.opts.Context
	return func() tea.Msg {
		notice, err := ctrl.CompleteUpload(ctx, doc)
		return UploadDoneMsg{Name: doc.Name, Notice: notice, Err: err}
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) runCommand(res commands.ParseResult) (tea.Model, tea.Cmd) {
	if res.Err != nil {
		m.status = res.Err.Error()
		return m, nil
	}

	switch res.Command.Name {
	case commands.CmdOpen:
		m.selectDocument(res.Arg())
		return m, nil

	case commands.CmdUpload:
		return m.startUpload()

	case commands.CmdExport:
		return m, m.exportCmd(res.Arg())

	case commands.CmdHistory:
		n := m.ctrl.Snapshot().Transcript().Len()
		m.status = fmt.Sprintf("%d turns in this conversation", n)
		return m, nil

	case commands.CmdHelp:
		m.notice = &exchange.Notice{Level: exchange.NoticeInfo, Text: helpText(m.registry)}
		return m, nil

	case commands.CmdQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) exportCmd(path string) tea.Cmd {
	state := m.ctrl.Snapshot()
	session := export.Session{
		Transcript: state.Transcript(),
		Backend:    m.opts.BackendURL,
		ExportedAt: time.Now(),
	}
	if doc, ok := state.Selected(); ok {
		session.Document = doc.Name
	}
	opts := export.DefaultOptions()
	opts.IncludeTimestamps = m.opts.ShowTimestamps

	return func() tea.Msg {
		written, err := export.WriteFile(path, session, opts)
		return ExportDoneMsg{Path: written, Err: err}
	}
}

func (m *Model) complete(line string) string {
	candidates := m.completer.Complete(line)
	if len(candidates) == 0 {
		return line
	}
	if prefix := commands.CommonPrefix(candidates); len(prefix) > len(line) {
		return prefix
	}
	return line
}

func (m *Model) copyLastAnswer() {
	turn, ok := m.ctrl.Snapshot().Transcript().LastAssistant()
	if !ok {
		m.status = "Nothing to copy yet"
		return
	}
	if err := m.opts.Clipboard(turn.Content); err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		m.status = "Could not copy to clipboard"
		return
	}
	m.status = "Copied last answer"
}

// =============================================================================
// HELPERS
// =============================================================================

// busy reports whether a network call is outstanding.
func (m Model) busy() bool {
	s := m.ctrl.Snapshot()
	return s.Pending() || s.Uploading()
}

// startSpinner starts the tick loop unless it is already running.
func (m *Model) startSpinner() tea.Cmd {
	if m.spinning || !m.busy() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}
