// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import "github.com/pkg/errors"

// AnswerErrorText is the assistant turn content appended when an ask fails
// for any reason.
const AnswerErrorText = "Error fetching response."

var (
	// ErrMissingInput is returned by an upload with no document selected.
	ErrMissingInput = errors.New("no document selected")

	// ErrExchangeInFlight is returned when an exchange of the same kind is
	// still awaiting its response.
	ErrExchangeInFlight = errors.New("an exchange is already in flight")

	// ErrStaleResult is returned when an ask outcome arrives for a request
	// that is no longer pending. The outcome is dropped.
	ErrStaleResult = errors.New("ask result does not match the pending question")
)
