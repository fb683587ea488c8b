// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch re-triggers work when a single document changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultDebounce is used when a non-positive debounce is given.
const DefaultDebounce = 500 * time.Millisecond

// pollInterval is how often settled changes are checked for.
const pollInterval = 50 * time.Millisecond

// Handler is called once per settled change to the watched file.
type Handler func(ctx context.Context, path string)

// =============================================================================
// WATCHER
// =============================================================================

// Watcher reports settled changes to one file.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a new file and renaming it over the old one
// are still seen. A burst of events is collapsed into one call once the file
// has been quiet for the debounce interval, and calls are additionally
// spaced at least one debounce interval apart.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	logger   *zap.Logger

	mu        sync.Mutex
	changedAt time.Time
	closeOnce sync.Once
}

// New creates a watcher for path.
func New(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve watch path")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		limiter:  rate.NewLimiter(rate.Every(debounce), 1),
		logger:   logger.Named("watch"),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers settled changes to fn until ctx is cancelled or the watcher is
// closed. fn runs on Run's goroutine, so a slow handler delays the next call
// rather than overlapping with it.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.mu.Lock()
				w.changedAt = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			if w.settled(now) {
				w.logger.Debug("change settled", zap.String("path", w.path))
				fn(ctx, w.path)
			}
		}
	}
}

// Close stops the watcher. Run returns once it notices.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// settled reports whether a pending change has been quiet long enough and
// the rate limiter allows another call. A change that is quiet but rate
// limited stays pending.
func (w *Watcher) settled(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.changedAt.IsZero() || now.Sub(w.changedAt) < w.debounce {
		return false
	}
	if !w.limiter.AllowN(now, 1) {
		return false
	}
	w.changedAt = time.Time{}
	return true
}
