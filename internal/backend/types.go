// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"github.com/pkg/errors"

	"github.com/jeranaias/pdfchat/internal/model"
)

// =============================================================================
// ENDPOINTS
// =============================================================================

const (
	// IngestPath receives a multipart document upload.
	IngestPath = "/upload-pdf"

	// AskPath answers a question given the conversation history.
	AskPath = "/ask"

	// formFileField is the multipart field carrying the document bytes.
	formFileField = "file"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// AskRequest is the JSON body sent to the answer endpoint. History includes
// every prior turn plus the turn carrying Question.
type AskRequest struct {
	Question string       `json:"question"`
	History  []model.Turn `json:"history"`
}

// askResponse only declares the field we consume. A pointer distinguishes a
// missing or null answer from an empty string.
type askResponse struct {
	Answer *string `json:"answer"`
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidResponse
	ErrTypeInvalidRequest
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the backend client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// IsTransport reports whether err is a network-level failure or a non-success
// status from the backend.
func IsTransport(err error) bool {
	var ce *ClientError
	if !errors.As(err, &ce) {
		return false
	}
	switch ce.Type {
	case ErrTypeConnection, ErrTypeTimeout, ErrTypeStatus:
		return true
	}
	return false
}

// Sentinel errors for document loading.
var (
	ErrEmptyDocument       = errors.New("document is empty")
	ErrDocumentTooLarge    = errors.New("document exceeds the upload size limit")
	ErrUnsupportedDocument = errors.New("unsupported document type")
)
