// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rostersync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dutymate/dutymate-v2-sub000/lib/clock"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// DefaultQuietPeriod is how long the queue waits after the last edit
// before flushing.
const DefaultQuietPeriod = time.Second

// ErrClosed is returned by Drain after Close.
var ErrClosed = errors.New("rostersync: queue closed")

// Config configures a Queue.
type Config struct {
	// Submit sends one batch to the backend. Required. It runs on the
	// goroutine that triggered the flush: the timer goroutine, or the
	// caller of Flush.
	Submit func(ctx context.Context, batch Batch) error

	// OnResult, if set, is called after every submission with its
	// outcome, without any queue lock held. The next flush starts only
	// after OnResult returns, so reconciliation work done here is
	// serialized with submissions.
	OnResult func(Result)

	// QuietPeriod defaults to DefaultQuietPeriod.
	QuietPeriod time.Duration

	// Clock defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result is the outcome of one submission.
type Result struct {
	Batch Batch
	Err   error

	// Discarded is set when Discard ran while the batch was in flight.
	// Failed edits of a discarded batch are dropped instead of being
	// requeued.
	Discarded bool
}

// Status summarizes the queue for display.
type Status struct {
	Pending  int
	InFlight int
	Failed   int

	// LastError is the error of the most recent submission, nil after
	// a success.
	LastError error
}

// Queue accumulates edits and flushes them in debounced batches.
type Queue struct {
	submit   func(context.Context, Batch) error
	onResult func(Result)
	quiet    time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	idle       *sync.Cond
	pending    []roster.PendingEdit
	inflight   []roster.PendingEdit
	timer      *clock.Timer
	busy       bool
	flushDue   bool
	generation uint64
	nextEdit   uint64
	nextBatch  uint64
	lastError  error
	closed     bool
}

// New returns an empty queue.
func New(config Config) *Queue {
	if config.Submit == nil {
		panic("rostersync: Config.Submit is required")
	}
	if config.QuietPeriod <= 0 {
		config.QuietPeriod = DefaultQuietPeriod
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	queue := &Queue{
		submit:   config.Submit,
		onResult: config.OnResult,
		quiet:    config.QuietPeriod,
		clock:    config.Clock,
		logger:   config.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	queue.idle = sync.NewCond(&queue.mu)
	return queue
}

// Enqueue appends edit, assigns its ID, and restarts the quiet-period
// timer. It returns the edit as stored. Enqueue after Close is a
// no-op.
func (queue *Queue) Enqueue(edit roster.PendingEdit) roster.PendingEdit {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	if queue.closed {
		return edit
	}
	queue.nextEdit++
	edit.ID = queue.nextEdit
	edit.State = roster.EditPending
	queue.pending = append(queue.pending, edit)

	if queue.timer != nil {
		queue.timer.Stop()
	}
	queue.timer = queue.clock.AfterFunc(queue.quiet, queue.Flush)
	return edit
}

// Flush submits the pending edits now. If a batch is already in
// flight, the flush is deferred until it resolves. Flush blocks for
// the duration of the submission and its result callback when it runs
// the flush itself.
func (queue *Queue) Flush() {
	queue.mu.Lock()
	if queue.timer != nil {
		queue.timer.Stop()
		queue.timer = nil
	}
	if queue.busy {
		queue.flushDue = true
		queue.mu.Unlock()
		return
	}
	if queue.closed || len(queue.pending) == 0 {
		queue.mu.Unlock()
		return
	}
	queue.busy = true
	queue.mu.Unlock()

	queue.run()
}

// run submits batches until nothing is due. Called with busy set.
func (queue *Queue) run() {
	for {
		queue.mu.Lock()
		if queue.closed || len(queue.pending) == 0 {
			queue.finishLocked()
			queue.mu.Unlock()
			return
		}
		edits := queue.takeBatchLocked()
		queue.nextBatch++
		sequence := queue.nextBatch
		generation := queue.generation
		queue.mu.Unlock()

		batch, err := NewBatch(sequence, edits)
		if err == nil {
			queue.logger.Debug("flushing roster batch",
				"batch", batch.ID, "sequence", sequence, "period", batch.Period.String(), "edits", len(edits))
			err = queue.submit(queue.ctx, batch)
		} else {
			batch = Batch{Sequence: sequence, Edits: edits}
			if len(edits) > 0 {
				batch.Period = edits[0].Period
			}
		}

		queue.mu.Lock()
		queue.inflight = nil
		result := Result{Batch: batch, Err: err, Discarded: generation != queue.generation}
		if err != nil {
			queue.lastError = err
			failed := slices.Clone(edits)
			for index := range failed {
				failed[index].State = roster.EditFailed
			}
			if !result.Discarded && !queue.closed {
				queue.pending = append(failed, queue.pending...)
			}
			result.Batch.Edits = failed
		} else {
			queue.lastError = nil
			committed := slices.Clone(edits)
			for index := range committed {
				committed[index].State = roster.EditCommitted
			}
			result.Batch.Edits = committed
		}
		queue.mu.Unlock()

		if err != nil {
			queue.logger.Warn("roster batch failed",
				"batch", batch.ID, "edits", len(edits), "discarded", result.Discarded, "error", err)
		}
		if queue.onResult != nil {
			queue.onResult(result)
		}

		queue.mu.Lock()
		again := queue.flushDue && !queue.closed && len(queue.pending) > 0
		queue.flushDue = false
		if !again {
			queue.finishLocked()
			queue.mu.Unlock()
			return
		}
		queue.mu.Unlock()
	}
}

// takeBatchLocked moves the leading run of same-period edits into the
// in-flight slot. Edits of another period stay pending and mark a
// follow-up flush as due.
func (queue *Queue) takeBatchLocked() []roster.PendingEdit {
	period := queue.pending[0].Period
	cut := 1
	for cut < len(queue.pending) && queue.pending[cut].Period == period {
		cut++
	}
	edits := slices.Clone(queue.pending[:cut])
	for index := range edits {
		edits[index].State = roster.EditPending
	}
	queue.pending = slices.Clone(queue.pending[cut:])
	queue.flushDue = len(queue.pending) > 0
	queue.inflight = edits
	return edits
}

func (queue *Queue) finishLocked() {
	queue.busy = false
	queue.flushDue = false
	queue.idle.Broadcast()
}

// Discard drops every pending edit and the debounce timer and returns
// the dropped edits. An in-flight batch is not cancelled; its result
// is still delivered, flagged Discarded.
func (queue *Queue) Discard() []roster.PendingEdit {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	if queue.timer != nil {
		queue.timer.Stop()
		queue.timer = nil
	}
	dropped := queue.pending
	queue.pending = nil
	queue.flushDue = false
	queue.generation++
	if len(dropped) > 0 {
		queue.logger.Info("discarded unsaved roster edits", "edits", len(dropped))
	}
	return dropped
}

// Pending returns the edits not yet committed, in submission order:
// the in-flight batch first, then queued edits.
func (queue *Queue) Pending() []roster.PendingEdit {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	edits := make([]roster.PendingEdit, 0, len(queue.inflight)+len(queue.pending))
	edits = append(edits, queue.inflight...)
	return append(edits, queue.pending...)
}

// Status returns counts for display.
func (queue *Queue) Status() Status {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	status := Status{
		Pending:   len(queue.pending),
		InFlight:  len(queue.inflight),
		LastError: queue.lastError,
	}
	for _, edit := range queue.pending {
		if edit.State == roster.EditFailed {
			status.Failed++
		}
	}
	return status
}

// Drain flushes and waits until no batch is in flight. It returns an
// error naming the number of edits still unsaved, if any.
func (queue *Queue) Drain() error {
	queue.Flush()

	queue.mu.Lock()
	defer queue.mu.Unlock()
	for queue.busy {
		queue.idle.Wait()
	}
	if queue.closed {
		return ErrClosed
	}
	if unsaved := len(queue.pending); unsaved > 0 {
		if queue.lastError != nil {
			return fmt.Errorf("rostersync: %d edits not saved: %w", unsaved, queue.lastError)
		}
		return fmt.Errorf("rostersync: %d edits not saved", unsaved)
	}
	return nil
}

// Close stops the timer and cancels any in-flight submission context.
// Pending edits are dropped.
func (queue *Queue) Close() {
	queue.mu.Lock()
	if queue.timer != nil {
		queue.timer.Stop()
		queue.timer = nil
	}
	queue.closed = true
	queue.mu.Unlock()
	queue.cancel()
}
