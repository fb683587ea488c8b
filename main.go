// pdfchat - chat about a PDF with a document question-answering service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/jeranaias/pdfchat/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	version := Version
	if GitCommit != "unknown" {
		version += " " + GitCommit
	}
	if BuildDate != "unknown" {
		version += " " + BuildDate
	}
	os.Exit(cli.Execute(version))
}
