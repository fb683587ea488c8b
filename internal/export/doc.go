// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat transcript to disk.
//
// # Supported Formats
//
//   - Markdown: human-readable, with optional front matter
//   - JSON: the turns in the same shape the backend receives as history
//
// # Usage
//
//	path, err := export.WriteFile("notes.md", export.Session{
//	    Transcript: state.Transcript(),
//	    Document:   "paper.pdf",
//	}, nil)
package export
