// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"github.com/jeranaias/pdfchat/internal/util"
)

// Transcript is an append-only, ordered sequence of turns. Insertion order is
// display order and chronological order.
//
// A Transcript value is an immutable snapshot: Append returns a new value and
// never writes into storage another snapshot can see, so a history captured
// for an in-flight request cannot change underneath it.
type Transcript struct {
	turns []Turn
}

// NewTranscript returns an empty transcript.
func NewTranscript() Transcript {
	return Transcript{}
}

// Append returns a new transcript with turn added at the end. A user turn
// with blank content is rejected: the receiver is returned unchanged and ok
// is false. Appending never fails otherwise.
func (t Transcript) Append(turn Turn) (next Transcript, ok bool) {
	if turn.Role == RoleUser && util.IsBlank(turn.Content) {
		return t, false
	}

	turns := make([]Turn, len(t.turns), len(t.turns)+1)
	copy(turns, t.turns)
	turns = append(turns, turn)
	return Transcript{turns: turns}, true
}

// Turns returns a copy of the turns in order. Mutating the result does not
// affect the transcript.
func (t Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t Transcript) Len() int {
	return len(t.turns)
}

// IsEmpty returns true if there are no turns.
func (t Transcript) IsEmpty() bool {
	return len(t.turns) == 0
}

// At returns the turn at index i.
func (t Transcript) At(i int) (Turn, bool) {
	if i < 0 || i >= len(t.turns) {
		return Turn{}, false
	}
	return t.turns[i], true
}

// Last returns the most recent turn.
func (t Transcript) Last() (Turn, bool) {
	return t.At(len(t.turns) - 1)
}

// LastAssistant returns the most recent assistant turn.
func (t Transcript) LastAssistant() (Turn, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Role == RoleAssistant {
			return t.turns[i], true
		}
	}
	return Turn{}, false
}

// Title derives a short title from the first user turn.
func (t Transcript) Title(maxWidth int) string {
	for _, turn := range t.turns {
		if turn.IsUser() {
			return turn.Preview(maxWidth)
		}
	}
	return "New conversation"
}
