// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the document question-answering
// service.
//
// The service exposes two operations:
//
//   - POST /upload-pdf: multipart form, field "file" holds the document
//   - POST /ask: JSON {"question", "history"} answered with {"answer"}
//
// # Key Types
//
//   - Client: single-attempt HTTP client for both endpoints
//   - Document: filename plus raw bytes, loaded with LoadDocument
//   - ClientError: typed failure (connection, timeout, status, invalid response)
//
// # Usage
//
//	client := backend.NewClient(&backend.ClientConfig{BaseURL: "http://127.0.0.1:8000"}, logger)
//	doc, err := backend.LoadDocument("paper.pdf", 50<<20, []string{".pdf"})
//	if err := client.Ingest(ctx, doc); err != nil {
//	    return err
//	}
//	answer, err := client.Ask(ctx, "What is the main result?", history)
package backend
