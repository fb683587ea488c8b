// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/jeranaias/pdfchat/internal/backend"
	"github.com/jeranaias/pdfchat/internal/exchange"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
	ExitBackend = 3
)

// errAnswerFailed is returned when a one-shot ask produced the failure turn.
var errAnswerFailed = errors.New("no answer from backend")

// UsageError marks an error caused by how the command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, args ...interface{}) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	switch {
	case errors.As(err, &usage), errors.Is(err, exchange.ErrMissingInput):
		return ExitUsage
	case backend.IsTransport(err):
		return ExitBackend
	default:
		return ExitError
	}
}
