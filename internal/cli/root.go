// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/pdfchat/internal/ui/styles"
)

var errorLabel = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "pdfchat",
		Short: "Chat about a PDF with a document question-answering service",
		Long: `pdfchat uploads a PDF to a question-answering service and lets you ask
questions about it. Every question is sent with the conversation so far.

Run without a command to open the full-screen chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, tuiOptions{})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.backendURL, "backend", "", "backend base URL (overrides config and PDFCHAT_BACKEND_URL)")
	pf.StringVar(&opts.configPath, "config", "", "config file (default ~/.pdfchat/config.toml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "print only answers and errors")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	root.AddCommand(
		newTUICommand(opts),
		newChatCommand(opts),
		newAskCommand(opts),
		newUploadCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(version),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(version)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), errorLabel.Render("Error:"), err)
	}
	return ExitCode(err)
}

// =============================================================================
// ARGUMENT VALIDATORS
// =============================================================================

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s: expected %d argument(s), got %d\nusage: %s", cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageErrorf("%s: expected at least %d argument(s)\nusage: %s", cmd.Name(), n, cmd.UseLine())
		}
		return nil
	}
}
