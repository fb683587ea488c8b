// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/pdfchat/internal/exchange"
	"github.com/jeranaias/pdfchat/internal/watch"
)

func newUploadCommand(opts *globalOptions) *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "upload PDF",
		Short: "Upload a PDF to the backend",
		Long: `Upload a PDF so that later questions are answered from it.

With --watch the file is uploaded again each time it changes, until
interrupted.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, opts, args[0], watchFile)
		},
	}
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "re-upload whenever the file changes")
	return cmd
}

func runUpload(cmd *cobra.Command, opts *globalOptions, path string, watchFile bool) error {
	a, err := newApp(cmd, opts, false)
	if err != nil {
		return err
	}
	defer a.close()

	err = a.selectAndUpload(cmd, path)
	if !watchFile {
		return err
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return err
	}

	a.out.info("Watching %s for changes. Press ctrl+c to stop.", path)
	return watchDocument(cmd.Context(), a, path, func(n exchange.Notice, _ error, _ string) {
		a.out.notice(n)
	})
}

// uploadReporter receives the outcome of each watch-triggered upload.
type uploadReporter func(n exchange.Notice, err error, name string)

// watchDocument re-selects and uploads path after every settled change
// until ctx ends. A cancelled context is not an error.
func watchDocument(ctx context.Context, a *app, path string, report uploadReporter) error {
	w, err := watch.New(path, a.cfg.Upload.WatchDebounce.Duration, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	err = w.Run(ctx, func(ctx context.Context, path string) {
		doc, err := a.loadDocument(path)
		if err != nil {
			a.logger.Warn("changed document rejected", zap.String("path", path), zap.Error(err))
			report(exchange.Notice{Level: exchange.NoticeError, Text: err.Error()}, err, "")
			return
		}
		a.ctrl.SelectDocument(doc)
		n, err := a.ctrl.SubmitUpload(ctx)
		report(n, err, doc.Name)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
