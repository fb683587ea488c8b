// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"github.com/jeranaias/pdfchat/internal/backend"
	"github.com/jeranaias/pdfchat/internal/model"
	"github.com/jeranaias/pdfchat/internal/util"
)

// =============================================================================
// STATE
// =============================================================================

// State is an immutable snapshot of the chat. The zero value is an empty
// conversation with nothing selected and nothing pending.
type State struct {
	transcript model.Transcript
	input      string
	pending    bool
	pendingID  string
	selected   *backend.Document
	uploading  bool
}

// Transcript returns the conversation so far.
func (s State) Transcript() model.Transcript { return s.transcript }

// Input returns the current input buffer.
func (s State) Input() string { return s.input }

// Pending reports whether an ask is awaiting its response.
func (s State) Pending() bool { return s.pending }

// Uploading reports whether an upload is awaiting its response.
func (s State) Uploading() bool { return s.uploading }

// Selected returns the document chosen for upload, if any.
func (s State) Selected() (backend.Document, bool) {
	if s.selected == nil {
		return backend.Document{}, false
	}
	return *s.selected, true
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Request is one ask exchange: the question and the history to send with it.
// ID is the ID of the user turn that opened the exchange.
type Request struct {
	ID       string
	Question string
	History  []model.Turn
}

// AskResult is the outcome of an ask call. Err set means failure, whatever
// Answer holds.
type AskResult struct {
	Answer string
	Err    error
}

// SetInput replaces the input buffer.
func (s State) SetInput(text string) State {
	s.input = text
	return s
}

// SelectDocument stores doc as the pending upload, replacing any earlier
// selection. The transcript is untouched.
func (s State) SelectDocument(doc backend.Document) State {
	s.selected = &doc
	return s
}

// BeginAsk applies the optimistic half of an ask: the user turn is appended,
// the input cleared and pending set. ok is false when text is blank, in which
// case s is returned unchanged. Callers must check Pending first.
func (s State) BeginAsk(text string) (next State, req Request, ok bool) {
	if util.IsBlank(text) {
		return s, Request{}, false
	}

	turn := model.NewUserTurn(text)
	transcript, ok := s.transcript.Append(turn)
	if !ok {
		return s, Request{}, false
	}

	s.transcript = transcript
	s.input = ""
	s.pending = true
	s.pendingID = turn.ID
	return s, Request{ID: turn.ID, Question: text, History: transcript.Turns()}, true
}

// Awaiting reports whether req is the ask currently pending.
func (s State) Awaiting(req Request) bool {
	return s.pending && req.ID != "" && req.ID == s.pendingID
}

// ResolveAsk appends the assistant turn for res and clears pending. An
// outcome for anything but the pending request is stale: ok is false and s
// is returned unchanged.
func (s State) ResolveAsk(req Request, res AskResult) (next State, turn model.Turn, ok bool) {
	if !s.Awaiting(req) {
		return s, model.Turn{}, false
	}

	if res.Err != nil {
		turn = model.NewFailedTurn(AnswerErrorText)
	} else {
		turn = model.NewAssistantTurn(res.Answer)
	}
	s.transcript, _ = s.transcript.Append(turn)
	s.pending = false
	s.pendingID = ""
	return s, turn, true
}

// BeginUpload marks an upload as running and returns the document to send.
func (s State) BeginUpload() (State, backend.Document, error) {
	if s.selected == nil {
		return s, backend.Document{}, ErrMissingInput
	}
	if s.uploading {
		return s, backend.Document{}, ErrExchangeInFlight
	}
	s.uploading = true
	return s, *s.selected, nil
}

// ResolveUpload clears the uploading flag. The selection stays as it is on
// both success and failure.
func (s State) ResolveUpload() State {
	s.uploading = false
	return s
}
