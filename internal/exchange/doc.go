// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange owns the chat state and drives upload and ask exchanges
// against the backend.
//
// State is an immutable value. Every change is a pure transition that takes
// the old State and returns a new one, so the view layer only ever reads
// snapshots. The Controller serialises transitions behind a mutex and
// enforces that at most one ask is in flight for the transcript.
//
// Failures never escape an ask: they become an assistant turn reading
// AnswerErrorText. Upload failures are reported as a Notice instead.
package exchange
