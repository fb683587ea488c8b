// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/pdfchat/internal/exchange"
	"github.com/jeranaias/pdfchat/internal/ui/chat"
	"github.com/jeranaias/pdfchat/internal/ui/markdown"
	"github.com/jeranaias/pdfchat/internal/ui/styles"
)

type tuiOptions struct {
	file      string
	watchFile bool
}

func newTUICommand(opts *globalOptions) *cobra.Command {
	var to tuiOptions

	cmd := &cobra.Command{
		Use:   "tui [--file PDF]",
		Short: "Open the full-screen chat",
		Long: `Open the full-screen chat.

Keys: enter sends, ctrl+o opens a PDF, ctrl+u uploads it, ctrl+y copies
the last answer, PgUp/PgDn scroll, ctrl+c quits. Type /help for commands.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, to)
		},
	}
	cmd.Flags().StringVarP(&to.file, "file", "f", "", "PDF to select at start")
	cmd.Flags().BoolVarP(&to.watchFile, "watch", "w", false, "re-upload --file whenever it changes")
	return cmd
}

func runTUI(cmd *cobra.Command, opts *globalOptions, to tuiOptions) error {
	if !isTerminal(os.Stdin) || !isTerminal(cmd.OutOrStdout()) {
		return usageErrorf("the full-screen chat needs a terminal; use \"pdfchat chat\" or \"pdfchat ask\" instead")
	}
	if to.watchFile && to.file == "" {
		return usageErrorf("--watch needs --file")
	}

	a, err := newApp(cmd, opts, true)
	if err != nil {
		return err
	}
	defer a.close()

	if to.file != "" {
		doc, err := a.loadDocument(to.file)
		if err != nil {
			return err
		}
		a.ctrl.SelectDocument(doc)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	profile := termenv.ColorProfile()
	dark := termenv.HasDarkBackground()

	m := chat.New(a.ctrl, styles.NewThemeForProfile(profile, dark), chat.Options{
		BackendURL:     a.client.BaseURL(),
		MaxBytes:       a.cfg.Upload.MaxBytes,
		Extensions:     a.cfg.Upload.Extensions,
		ShowTimestamps: a.cfg.UI.ShowTimestamps,
		Markdown:       markdown.New(a.cfg.UI.Markdown, markdown.StyleFor(profile, dark)),
		Context:        ctx,
		Logger:         a.logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the program reads the message, and subscribers run
	// inside Update when the change comes from the screen itself.
	unsubscribe := a.ctrl.Subscribe(func(exchange.State) {
		go p.Send(chat.StateChangedMsg{})
	})
	defer unsubscribe()

	if to.watchFile {
		go func() {
			err := watchDocument(ctx, a, to.file, func(n exchange.Notice, err error, name string) {
				p.Send(chat.UploadDoneMsg{Name: name, Notice: n, Err: err})
			})
			if err != nil {
				a.logger.Warn("watch stopped", zap.Error(err))
			}
		}()
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
		return nil
	}
	return err
}
