// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/pdfchat/internal/util"
)

func newAskCommand(opts *globalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ask [--file PDF] QUESTION...",
		Short: "Ask one question and print the answer",
		Example: `  pdfchat ask "What is the main finding?"
  pdfchat ask -f paper.pdf What datasets were used?`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, file, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "upload this PDF before asking")
	return cmd
}

func runAsk(cmd *cobra.Command, opts *globalOptions, file, question string) error {
	if util.IsBlank(question) {
		return usageErrorf("question is empty")
	}

	a, err := newApp(cmd, opts, false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if err := a.client.Ping(ctx); err != nil {
		return errors.Wrapf(err, "backend %s is not reachable", a.client.BaseURL())
	}

	if file != "" {
		if err := a.selectAndUpload(cmd, file); err != nil {
			return err
		}
	}

	done := a.out.typing()
	turn, _, err := a.ctrl.SubmitQuestion(ctx, question)
	done()
	if err != nil {
		return err
	}

	a.out.answer(turn)
	if turn.Failed {
		return errAnswerFailed
	}
	return nil
}
