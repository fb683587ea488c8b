// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
//
// # Key Types
//
//   - Role: turn author (user or assistant)
//   - Turn: one message with role and content
//   - Transcript: ordered, append-only, immutable-snapshot list of turns
//
// # Usage
//
//	t := model.NewTranscript()
//	t, _ = t.Append(model.NewUserTurn("What is the capital of France?"))
//	t, _ = t.Append(model.NewAssistantTurn("Paris"))
//	for _, turn := range t.Turns() {
//	    fmt.Printf("%s: %s\n", turn.Role.DisplayName(), turn.Content)
//	}
package model
