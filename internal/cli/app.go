// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/pdfchat/internal/backend"
	"github.com/jeranaias/pdfchat/internal/config"
	"github.com/jeranaias/pdfchat/internal/exchange"
	"github.com/jeranaias/pdfchat/internal/logging"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	backendURL string
	configPath string
	logLevel   string
	quiet      bool
}

// app is everything a command needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	client *backend.Client
	ctrl   *exchange.Controller
	out    *printer
}

// loadConfig reads the config file named by --config, or the default one,
// and applies flag overrides. Precedence: flags, environment, file,
// defaults.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.backendURL != "" {
		cfg.Backend.URL = opts.backendURL
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, &UsageError{Err: errors.Wrap(err, "invalid settings")}
	}
	return cfg, nil
}

// newApp wires config, logging, the backend client and the controller.
// fullScreen turns the console log core off because the screen owns the
// terminal.
func newApp(cmd *cobra.Command, opts *globalOptions, fullScreen bool) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if fullScreen {
		cfg.Log.Console = false
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	client := backend.NewClient(&backend.ClientConfig{
		BaseURL:   cfg.Backend.URL,
		Timeout:   cfg.Backend.Timeout.Duration,
		UserAgent: cfg.Backend.UserAgent,
	}, logger)

	logger.Debug("starting",
		zap.String("command", cmd.Name()),
		zap.String("backend", client.BaseURL()))

	return &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		ctrl:   exchange.NewController(client, logger),
		out:    newPrinter(cmd.OutOrStdout(), cfg.UI.Markdown, cfg.UI.WordWrap, opts.quiet),
	}, nil
}

// loadDocument reads path under the configured upload limits. Load
// failures are reported as usage errors.
func (a *app) loadDocument(path string) (backend.Document, error) {
	doc, err := backend.LoadDocument(path, a.cfg.Upload.MaxBytes, a.cfg.Upload.Extensions)
	if err != nil {
		return backend.Document{}, &UsageError{Err: err}
	}
	return doc, nil
}

// selectAndUpload loads path, selects it and uploads it, printing the
// notice.
func (a *app) selectAndUpload(cmd *cobra.Command, path string) error {
	doc, err := a.loadDocument(path)
	if err != nil {
		return err
	}
	a.ctrl.SelectDocument(doc)

	done := a.out.typing()
	notice, err := a.ctrl.SubmitUpload(cmd.Context())
	done()
	a.out.notice(notice)
	return err
}

func (a *app) close() {
	_ = a.logger.Sync()
}
