// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads pdfchat settings.
//
// Configuration is resolved in this order, later sources winning:
//   - Built-in defaults
//   - ~/.pdfchat/config.toml (PDFCHAT_HOME moves the directory)
//   - .env in the working directory, then PDFCHAT_* environment variables
//   - Command line flags, applied by the cli package
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := backend.NewClient(&backend.ClientConfig{BaseURL: cfg.Backend.URL}, logger)
package config
