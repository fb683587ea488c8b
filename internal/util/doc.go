// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the pdfchat application.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: terminal-column aware truncation (go-runewidth)
//   - FirstLine, IsBlank: small helpers for previews and input checks
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Fit a document name into a header cell
//	name := util.TruncateWidth(doc.Name, 24)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0o644)
package util
