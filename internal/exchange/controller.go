// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jeranaias/pdfchat/internal/backend"
	"github.com/jeranaias/pdfchat/internal/model"
)

// Backend is the service the controller talks to. *backend.Client
// implements it.
type Backend interface {
	Ingest(ctx context.Context, doc backend.Document) error
	Ask(ctx context.Context, question string, history []model.Turn) (string, error)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the chat State and runs exchanges against a Backend.
//
// All transitions happen under one mutex, and the network call runs with the
// mutex released. Subscribers are notified after every transition, in order,
// with the latest snapshot.
type Controller struct {
	backend Backend
	logger  *zap.Logger

	mu    sync.Mutex
	state State

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(State)
}

// NewController creates a controller with an empty transcript. A nil logger
// discards output.
func NewController(b Backend, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		backend:     b,
		logger:      logger.Named("exchange"),
		subscribers: make(map[int]func(State)),
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to be called with the new state after every change.
// The returned function removes the subscription. fn runs on the goroutine
// that made the change and must not call back into the Controller.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subscribers, id)
		c.subMu.Unlock()
	}
}

// apply runs a transition under the state lock and then notifies
// subscribers.
func (c *Controller) apply(fn func(State) State) {
	c.mu.Lock()
	c.state = fn(c.state)
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) publish() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	snapshot := c.Snapshot()
	for _, fn := range c.subscribers {
		fn(snapshot)
	}
}

// SetInput records a change to the input buffer.
func (c *Controller) SetInput(text string) {
	c.apply(func(s State) State { return s.SetInput(text) })
}

// SelectDocument stores doc as the pending upload.
func (c *Controller) SelectDocument(doc backend.Document) {
	c.apply(func(s State) State { return s.SelectDocument(doc) })
	c.logger.Debug("document selected", zap.String("name", doc.Name), zap.Int64("bytes", doc.Size()))
}

// =============================================================================
// ASK
// =============================================================================

// Begin applies the optimistic half of an ask and returns the request to
// send. A blank question is a silent no-op: ok is false and err is nil.
// While another ask is pending Begin returns ErrExchangeInFlight and the
// transcript is not touched.
func (c *Controller) Begin(text string) (req Request, ok bool, err error) {
	c.mu.Lock()
	if c.state.pending {
		c.mu.Unlock()
		return Request{}, false, ErrExchangeInFlight
	}
	next, req, ok := c.state.BeginAsk(text)
	c.state = next
	c.mu.Unlock()

	if !ok {
		return Request{}, false, nil
	}
	c.publish()
	return req, true, nil
}

// Complete performs the network half of an ask begun with Begin. It appends
// exactly one assistant turn, which it returns, and clears pending. Failures
// are logged and become AnswerErrorText. A req that is not the pending ask
// makes no call and returns ErrStaleResult.
func (c *Controller) Complete(ctx context.Context, req Request) (model.Turn, error) {
	if !c.Snapshot().Awaiting(req) {
		c.logger.Warn("ask dropped: not pending", zap.String("request_id", req.ID))
		return model.Turn{}, ErrStaleResult
	}

	start := time.Now()
	answer, err := c.backend.Ask(ctx, req.Question, req.History)
	if err != nil {
		c.logger.Warn("ask failed",
			zap.String("request_id", req.ID),
			zap.Int("history_len", len(req.History)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
	} else {
		c.logger.Info("ask answered",
			zap.String("request_id", req.ID),
			zap.Int("history_len", len(req.History)),
			zap.Int("answer_len", len(answer)),
			zap.Duration("duration", time.Since(start)))
	}
	return c.Resolve(req, AskResult{Answer: answer, Err: err})
}

// Resolve applies the outcome of req obtained elsewhere, e.g. from an event
// loop that ran the call itself, and returns the appended assistant turn.
// Outcomes for a request that is no longer pending are dropped with
// ErrStaleResult.
func (c *Controller) Resolve(req Request, res AskResult) (model.Turn, error) {
	c.mu.Lock()
	next, turn, ok := c.state.ResolveAsk(req, res)
	c.state = next
	c.mu.Unlock()

	if !ok {
		c.logger.Warn("stale ask result dropped", zap.String("request_id", req.ID))
		return model.Turn{}, ErrStaleResult
	}
	c.publish()
	return turn, nil
}

// SubmitQuestion runs a full ask exchange and blocks until it settles. The
// assistant turn is returned with ok true; a blank question returns ok false
// without touching anything.
func (c *Controller) SubmitQuestion(ctx context.Context, text string) (model.Turn, bool, error) {
	req, ok, err := c.Begin(text)
	if err != nil || !ok {
		return model.Turn{}, false, err
	}
	turn, err := c.Complete(ctx, req)
	if err != nil {
		return model.Turn{}, false, err
	}
	return turn, true, nil
}

// =============================================================================
// UPLOAD
// =============================================================================

// BeginUpload marks an upload as running and returns the selected document.
// With nothing selected it returns ErrMissingInput; with an upload already
// running it returns ErrExchangeInFlight.
func (c *Controller) BeginUpload() (backend.Document, error) {
	c.mu.Lock()
	next, doc, err := c.state.BeginUpload()
	c.state = next
	c.mu.Unlock()

	if err != nil {
		return backend.Document{}, err
	}
	c.publish()
	return doc, nil
}

// CompleteUpload sends doc to the backend and returns the notice to show.
// The transcript and the ask flow are never touched.
func (c *Controller) CompleteUpload(ctx context.Context, doc backend.Document) (Notice, error) {
	start := time.Now()
	err := c.backend.Ingest(ctx, doc)
	c.apply(State.ResolveUpload)

	if err != nil {
		c.logger.Warn("upload failed",
			zap.String("name", doc.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return Notice{Level: NoticeError, Text: NoticeUploadFailed}, errors.Wrapf(err, "upload %s", doc.Name)
	}

	c.logger.Info("upload complete",
		zap.String("name", doc.Name),
		zap.Int64("bytes", doc.Size()),
		zap.Duration("duration", time.Since(start)))
	return Notice{Level: NoticeInfo, Text: NoticeUploadOK}, nil
}

// SubmitUpload uploads the selected document and blocks until the call
// settles. The returned Notice is always set; err is non-nil on failure.
// With nothing selected no network call is made.
func (c *Controller) SubmitUpload(ctx context.Context) (Notice, error) {
	doc, err := c.BeginUpload()
	if err != nil {
		return NoticeFor(err), err
	}
	return c.CompleteUpload(ctx, doc)
}

// NoticeFor returns the notice for an error from BeginUpload.
func NoticeFor(err error) Notice {
	switch {
	case errors.Is(err, ErrMissingInput):
		return Notice{Level: NoticeError, Text: NoticeSelectDocument}
	case errors.Is(err, ErrExchangeInFlight):
		return Notice{Level: NoticeInfo, Text: "An upload is already in progress"}
	default:
		return Notice{Level: NoticeError, Text: NoticeUploadFailed}
	}
}
