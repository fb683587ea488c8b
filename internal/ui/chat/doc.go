// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the full-screen chat interface.
//
// Model is a Bubble Tea model over an exchange.Controller. It never keeps
// its own copy of the transcript: every render reads the controller's
// snapshot, and network calls run as tea.Cmds that settle the controller
// and report back with AnswerMsg or UploadDoneMsg.
//
// Changes made to the controller from outside the program (a file watcher
// re-uploading the document, for example) should be announced with
// StateChangedMsg so the screen redraws.
package chat
