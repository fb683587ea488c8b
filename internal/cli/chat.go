// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/pdfchat/internal/commands"
	"github.com/jeranaias/pdfchat/internal/config"
	"github.com/jeranaias/pdfchat/internal/export"
	"github.com/jeranaias/pdfchat/internal/util"
)

const replPrompt = "> "

// =============================================================================
// INPUT
// =============================================================================

// lineReader yields one line of input per call and io.EOF at the end.
type lineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides line editing, completion and persistent history for the
// interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor that completes slash commands and paths
// with c.
func NewChatCLI(c *commands.Completer) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(c.Complete)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}

	cli := &ChatCLI{line: line, historyFile: filepath.Join(dir, "chat_history")}
	cli.LoadHistory()
	return cli
}

// LoadHistory reads saved history, if any.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line. Non-blank lines are added to history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if !util.IsBlank(input) {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// maxPipedLine bounds one line of piped input.
const maxPipedLine = 4 << 20

// scanReader reads lines from a pipe or file.
type scanReader struct {
	sc *bufio.Scanner
}

func newScanReader(r io.Reader) *scanReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxPipedLine)
	return &scanReader{sc: sc}
}

func (s *scanReader) ReadInput(string) (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scanReader) Close() {}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCommand(opts *globalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "chat [--file PDF]",
		Short: "Chat in line mode",
		Long: `Chat in line mode. Each line you type is a question; lines starting
with a command name are commands:

  /open <path>     select a PDF
  /upload          upload the selected PDF
  /export <path>   write the conversation to Markdown or JSON
  /history         list the conversation
  /help            list commands
  /quit            leave (ctrl+d works too)

Input can also be piped in, one question per line.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "select and upload this PDF first")
	return cmd
}

func runChat(cmd *cobra.Command, opts *globalOptions, file string) error {
	a, err := newApp(cmd, opts, false)
	if err != nil {
		return err
	}
	defer a.close()

	if file != "" {
		var usage *UsageError
		if err := a.selectAndUpload(cmd, file); errors.As(err, &usage) {
			return err
		}
	}

	r := newREPL(a)

	var in lineReader
	if isTerminal(cmd.InOrStdin()) {
		in = NewChatCLI(r.completer)
		a.out.info("Connected to %s. Type /help for commands.", a.client.BaseURL())
	} else {
		in = newScanReader(cmd.InOrStdin())
	}
	defer in.Close()

	ctx := cmd.Context()
	for ctx.Err() == nil {
		line, err := in.ReadInput(replPrompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return errors.Wrap(err, "read input")
		}
		if r.handleLine(ctx, line) {
			return nil
		}
	}
	return nil
}

// =============================================================================
// REPL
// =============================================================================

type repl struct {
	app       *app
	registry  *commands.Registry
	parser    *commands.Parser
	completer *commands.Completer
}

func newREPL(a *app) *repl {
	registry := commands.NewRegistry()
	return &repl{
		app:       a,
		registry:  registry,
		parser:    commands.NewParser(registry),
		completer: commands.NewCompleter(registry, a.cfg.Upload.Extensions),
	}
}

// handleLine runs one line of input and reports whether the user asked to
// leave.
func (r *repl) handleLine(ctx context.Context, line string) (quit bool) {
	res := r.parser.Parse(line)
	if !res.IsCommand {
		r.ask(ctx, line)
		return false
	}

	out := r.app.out
	if res.Err != nil {
		out.errorf("%v", res.Err)
		return false
	}

	switch res.Command.Name {
	case commands.CmdOpen:
		doc, err := r.app.loadDocument(res.Arg())
		if err != nil {
			out.errorf("%v", err)
			return false
		}
		r.app.ctrl.SelectDocument(doc)
		out.info("Selected %s (%.1f KiB). Type /upload to send it.", doc.Name, float64(doc.Size())/1024)

	case commands.CmdUpload:
		done := out.typing()
		notice, err := r.app.ctrl.SubmitUpload(ctx)
		done()
		out.notice(notice)
		if err != nil {
			r.app.logger.Debug("upload from chat failed", zap.Error(err))
		}

	case commands.CmdExport:
		r.export(res.Arg())

	case commands.CmdHistory:
		out.transcript(r.app.ctrl.Snapshot().Transcript())

	case commands.CmdHelp:
		for _, l := range r.registry.HelpLines() {
			fmt.Fprintln(out.out, l)
		}

	case commands.CmdQuit:
		return true
	}
	return false
}

func (r *repl) ask(ctx context.Context, line string) {
	if util.IsBlank(line) {
		return
	}
	out := r.app.out

	done := out.typing()
	turn, ok, err := r.app.ctrl.SubmitQuestion(ctx, line)
	done()
	if err != nil {
		out.errorf("%v", err)
		return
	}
	if ok {
		out.answer(turn)
	}
}

func (r *repl) export(path string) {
	state := r.app.ctrl.Snapshot()
	session := export.Session{
		Transcript: state.Transcript(),
		Backend:    r.app.client.BaseURL(),
		ExportedAt: time.Now(),
	}
	if doc, ok := state.Selected(); ok {
		session.Document = doc.Name
	}
	opts := export.DefaultOptions()
	opts.IncludeTimestamps = r.app.cfg.UI.ShowTimestamps

	written, err := export.WriteFile(path, session, opts)
	if err != nil {
		r.app.out.errorf("Export failed: %v", err)
		return
	}
	r.app.out.info("Exported to %s", written)
}
