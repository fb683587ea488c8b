// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jeranaias/pdfchat/internal/model"
)

// MaxResponseSize caps how much of a response body is read.
const MaxResponseSize = 10 * 1024 * 1024

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the service root (default: http://127.0.0.1:8000).
	BaseURL string

	// Timeout bounds each request. Zero means no client-side timeout; a call
	// then lasts until the transport errors or the server responds.
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "http://127.0.0.1:8000",
		UserAgent: "pdfchat/0.1",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the document question-answering service. It performs
// exactly one HTTP round trip per call and never retries.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client. A nil config uses DefaultConfig and a nil
// logger discards output.
func NewClient(config *ClientConfig, logger *zap.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultConfig().UserAgent
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.Named("backend"),
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Ping checks that the service answers HTTP at all. Any response, whatever
// its status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: err}
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// Ingest uploads doc as multipart form data. Any 2xx status is success and
// the body is ignored.
func (c *Client) Ingest(ctx context.Context, doc Document) error {
	if len(doc.Data) == 0 {
		return &ClientError{Type: ErrTypeInvalidRequest, Message: "cannot upload document", Cause: ErrEmptyDocument}
	}

	body, contentType, err := encodeDocument(doc)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to encode document", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+IngestPath, body)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	if !isSuccess(resp.StatusCode) {
		return statusError(resp)
	}
	return nil
}

// Ask sends question with history and returns the answer field verbatim.
// history must already contain the user turn for question.
func (c *Client) Ask(ctx context.Context, question string, history []model.Turn) (string, error) {
	if history == nil {
		history = []model.Turn{}
	}

	payload, err := json.Marshal(AskRequest{Question: question, History: history})
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+AskPath, bytes.NewReader(payload))
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer drain(resp)

	if !isSuccess(resp.StatusCode) {
		return "", statusError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}

	var parsed askResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "response is not a JSON object", Cause: err}
	}
	if parsed.Answer == nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "response has no answer field"}
	}

	return *parsed.Answer, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do sends req once, tagging it with a request ID and logging method, path,
// status and latency. Bodies are never logged.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", c.config.UserAgent)

	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Warn("request failed", zap.Duration("duration", duration), zap.Error(err))
		if isTimeout(req.Context(), err) {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "backend unreachable", Cause: err}
	}

	log.Info("request complete", zap.Int("status", resp.StatusCode), zap.Duration("duration", duration))
	return resp, nil
}

func encodeDocument(doc Document) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(formFileField), escapeQuotes(doc.Name)))
	header.Set("Content-Type", doc.ContentType())

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// escapeQuotes escapes a Content-Disposition parameter value the way
// multipart.Writer.CreateFormFile does.
func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := "unexpected status from backend: " + resp.Status
	if s := strings.TrimSpace(string(snippet)); s != "" {
		msg += " (" + s + ")"
	}
	return &ClientError{Type: ErrTypeStatus, Message: msg, StatusCode: resp.StatusCode}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// drain discards the rest of the body so the connection can be reused.
func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
	resp.Body.Close()
}
