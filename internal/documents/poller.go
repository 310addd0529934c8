package documents

import (
	"context"
	"time"
)

// StatusReader is the read surface the watcher needs.
type StatusReader interface {
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
}

// StatusWatcher polls a document's status at a fixed cadence and fires the
// matching callback exactly once when the document reaches a terminal state.
// Repeated terminal observations after the transition do not re-fire.
// Cancelling the context stops the watch only; server-side extraction is
// unaffected.
type StatusWatcher struct {
	Reader      StatusReader
	Interval    time.Duration
	OnCompleted func(Document)
	OnFailed    func(Document)

	sleep func(ctx context.Context, d time.Duration) error

	fired bool
}

// NewStatusWatcher constructs a watcher with a default 2s cadence.
func NewStatusWatcher(reader StatusReader, interval time.Duration) *StatusWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &StatusWatcher{
		Reader:   reader,
		Interval: interval,
		sleep:    sleepCtx,
	}
}

// Observe feeds one status reading into the watcher. It returns true when the
// document is terminal. The callback for the terminal state runs on the first
// terminal observation only.
func (w *StatusWatcher) Observe(doc Document) bool {
	if !doc.Status.Terminal() {
		return false
	}
	if w.fired {
		return true
	}
	w.fired = true
	switch doc.Status {
	case StatusCompleted:
		if w.OnCompleted != nil {
			w.OnCompleted(doc)
		}
	case StatusFailed:
		if w.OnFailed != nil {
			w.OnFailed(doc)
		}
	}
	return true
}

// Watch polls until the document is terminal or the context is cancelled.
// It returns the last observed document.
func (w *StatusWatcher) Watch(ctx context.Context, userID, documentID string) (Document, error) {
	var last Document
	for {
		doc, err := w.Reader.GetByID(ctx, userID, documentID)
		if err != nil {
			return last, err
		}
		last = doc
		if w.Observe(doc) {
			return doc, nil
		}
		if err := w.sleep(ctx, w.Interval); err != nil {
			return last, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
