// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the pdfchat command line.
//
// Commands:
//
//	pdfchat                     Full-screen chat (same as "pdfchat tui")
//	pdfchat tui [-f PDF]        Full-screen chat, optionally with a PDF selected
//	pdfchat chat [-f PDF]       Line-mode chat with history and slash commands
//	pdfchat ask [-f PDF] Q...   Ask one question and print the answer
//	pdfchat upload PDF          Upload a PDF; --watch re-uploads on change
//	pdfchat config show|path|init
//	pdfchat version
//
// Global flags --backend, --config, --log-level and --quiet apply to every
// command. Exit codes: 0 success, 1 failure, 2 usage or missing input,
// 3 backend unreachable.
package cli
