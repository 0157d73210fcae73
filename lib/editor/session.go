// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dutymate/dutymate-v2-sub000/lib/clock"
	"github.com/dutymate/dutymate-v2-sub000/lib/metrics"
	"github.com/dutymate/dutymate-v2-sub000/lib/overlay"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
	"github.com/dutymate/dutymate-v2-sub000/lib/rostersync"
	"github.com/dutymate/dutymate-v2-sub000/lib/selection"
)

// DefaultMaxMonthsAhead is how far past the current month navigation
// goes unless configured otherwise.
const DefaultMaxMonthsAhead = 1

var (
	// ErrBeyondHorizon refuses navigation past the allowed horizon.
	ErrBeyondHorizon = errors.New("editor: month is beyond the editable horizon")

	// ErrBusy refuses an auto-generate while another is running.
	ErrBusy = errors.New("editor: auto-generate already running")

	// ErrBlocked refuses an operation while a modal notice is open or
	// the session is not ready.
	ErrBlocked = errors.New("editor: session is blocked")

	// ErrAuthExpired is returned by every operation once the backend
	// rejected the credentials.
	ErrAuthExpired = errors.New("editor: login expired")
)

// Config configures a Session.
type Config struct {
	// Backend is required.
	Backend Backend

	// Calendar supplies weekends and holidays for compliance and the
	// default off-day count.
	Calendar roster.Calendar

	// QuietPeriod is the sync debounce. Defaults to
	// rostersync.DefaultQuietPeriod.
	QuietPeriod time.Duration

	// MaxMonthsAhead caps forward navigation relative to the month of
	// Clock.Now(). Zero keeps navigation at or before the current
	// month; negative removes the cap.
	MaxMonthsAhead int

	// OnEvent, if set, is called after each visible change without any
	// session lock held. It may run on the sync timer goroutine.
	OnEvent func(Event)

	// Clock defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Session is one editing session over one period at a time.
//
// Lock order is Session, then Queue, then Store; nothing reaches the
// backend while the session lock is held.
type Session struct {
	backend  Backend
	calendar roster.Calendar
	maxAhead int
	onEvent  func(Event)
	clock    clock.Clock
	logger   *slog.Logger

	// ctx bounds the refetches that follow a sync; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	store     *roster.Store
	queue     *rostersync.Queue
	processor *Processor

	mu         sync.Mutex
	period     roster.Period
	status     Status
	loadErr    error
	selection  *selection.Controller
	rules      *roster.Rules
	requests   []roster.DatedRequest
	notice     *Notice
	modal      *Notice
	generating bool
}

// New returns a session in StatusLoading. Call Open to load the first
// period.
func New(config Config) *Session {
	if config.Backend == nil {
		panic("editor: Config.Backend is required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	session := &Session{
		backend:   config.Backend,
		calendar:  config.Calendar,
		maxAhead:  config.MaxMonthsAhead,
		onEvent:   config.OnEvent,
		clock:     config.Clock,
		logger:    config.Logger,
		store:     roster.NewStore(),
		selection: selection.New(0, 0),
		status:    StatusLoading,
	}
	session.ctx, session.cancel = context.WithCancel(context.Background())
	session.queue = rostersync.New(rostersync.Config{
		Submit:      config.Backend.SubmitBatch,
		OnResult:    session.onSyncResult,
		QuietPeriod: config.QuietPeriod,
		Clock:       config.Clock,
		Logger:      config.Logger,
	})
	session.processor = NewProcessor(session.store, session.queue, config.Clock)
	return session
}

func (session *Session) emit(events ...Event) {
	if session.onEvent == nil {
		return
	}
	for _, event := range events {
		session.onEvent(event)
	}
}

// setNoticeLocked records notice and returns its event. Modal notices
// replace any open modal; others replace the dismissible notice.
func (session *Session) setNoticeLocked(notice Notice) Event {
	notice.At = session.clock.Now()
	if notice.Modal {
		session.modal = &notice
	} else {
		session.notice = &notice
	}
	return Event{Kind: EventNotice, Notice: &notice}
}

// expireLocked enters StatusAuthExpired. Unsaved edits are kept in the
// queue but no further batch is sent.
func (session *Session) expireLocked(err error) []Event {
	if session.status == StatusAuthExpired {
		return nil
	}
	session.status = StatusAuthExpired
	session.logger.Warn("login expired", "error", err)
	return []Event{
		{Kind: EventStatusChanged},
		session.setNoticeLocked(Notice{
			Kind:    NoticeAuthExpired,
			Message: "login expired; sign in again to continue",
			Modal:   true,
			Err:     err,
		}),
	}
}

func (session *Session) checkUsableLocked() error {
	switch session.status {
	case StatusAuthExpired:
		return ErrAuthExpired
	case StatusClosed:
		return rostersync.ErrClosed
	}
	return nil
}

// Open loads period and the ward overlays. A load failure leaves the
// session in StatusLoadFailed with a blocking retry; overlay failures
// only raise a warning.
func (session *Session) Open(ctx context.Context, period roster.Period) error {
	session.mu.Lock()
	if err := session.checkUsableLocked(); err != nil {
		session.mu.Unlock()
		return err
	}
	session.queue.Discard()
	session.period = period
	session.status = StatusLoading
	session.selection.Reset()
	session.mu.Unlock()
	session.emit(Event{Kind: EventStatusChanged})

	if err := session.load(ctx, period, nil); err != nil {
		return err
	}
	if err := session.RefreshOverlays(ctx); errors.Is(err, ErrAuthExpired) {
		return err
	}
	return nil
}

// load fetches period and installs it if it is still the active
// period. Failures set StatusLoadFailed.
func (session *Session) load(ctx context.Context, period roster.Period, revision *int) error {
	snapshot, err := session.backend.FetchPeriod(ctx, period, revision)

	session.mu.Lock()
	if session.period != period {
		session.mu.Unlock()
		session.logger.Debug("dropping superseded period load", "period", period.String())
		return nil
	}
	var events []Event
	if err == nil {
		err = session.store.Replace(snapshot)
	}
	if err != nil {
		if IsAuthExpired(err) {
			events = session.expireLocked(err)
			session.mu.Unlock()
			session.emit(events...)
			return ErrAuthExpired
		}
		session.status = StatusLoadFailed
		session.loadErr = err
		session.mu.Unlock()
		session.logger.Error("loading roster failed", "period", period.String(), "error", err)
		session.emit(Event{Kind: EventStatusChanged})
		return fmt.Errorf("editor: loading %s: %w", period, err)
	}

	rows, days := session.store.Dims()
	session.selection.Resize(rows, days)
	session.status = StatusReady
	session.loadErr = nil
	session.mu.Unlock()
	session.logger.Info("roster loaded", "period", period.String(), "nurses", rows, "days", days)
	session.emit(Event{Kind: EventStatusChanged}, Event{Kind: EventGridChanged})
	return nil
}

// RefreshOverlays reloads the ward rules and shift requests. Failures
// are reported as a warning notice and keep the previous overlays.
func (session *Session) RefreshOverlays(ctx context.Context) error {
	rules, rulesErr := session.backend.FetchRules(ctx)
	requests, requestsErr := session.backend.FetchRequests(ctx)

	session.mu.Lock()
	var events []Event
	for _, err := range []error{rulesErr, requestsErr} {
		if IsAuthExpired(err) {
			events = session.expireLocked(err)
			session.mu.Unlock()
			session.emit(events...)
			return ErrAuthExpired
		}
	}
	if rulesErr == nil {
		session.rules = &rules
	}
	if requestsErr == nil {
		session.requests = requests
	}
	events = append(events, Event{Kind: EventOverlaysChanged})
	err := errors.Join(rulesErr, requestsErr)
	if err != nil {
		events = append(events, session.setNoticeLocked(Notice{
			Kind:      NoticeWarning,
			Message:   "ward rules or requests could not be loaded",
			Retryable: true,
			Err:       err,
		}))
	}
	session.mu.Unlock()

	if err != nil {
		session.logger.Warn("refreshing overlays failed", "error", err)
	}
	session.emit(events...)
	return err
}

// HandleKey feeds one key to the selection controller and applies the
// edit it produces. Keys are ignored while the session is not ready or
// a modal notice is open.
func (session *Session) HandleKey(event selection.KeyEvent) selection.Outcome {
	session.mu.Lock()
	if session.status != StatusReady || session.modal != nil {
		outcome := selection.Outcome{State: session.selection.State()}
		session.mu.Unlock()
		return outcome
	}
	before := session.selection.State()
	outcome := session.selection.HandleKey(event)
	var events []Event
	if outcome.State != before {
		events = append(events, Event{Kind: EventSelectionChanged})
	}
	if outcome.Edit != nil {
		edit := outcome.Edit
		if _, err := session.processor.ApplyEdit(edit.Row, edit.Col, edit.Code, false); err == nil {
			events = append(events, Event{Kind: EventGridChanged}, Event{Kind: EventSyncChanged})
		} else if !IsValidation(err) {
			session.logger.Error("applying edit", "row", edit.Row, "col", edit.Col, "error", err)
		}
	}
	session.mu.Unlock()
	session.emit(events...)
	return outcome
}

// Select moves the cursor to (row, col); out-of-bounds coordinates
// clear it.
func (session *Session) Select(row, col int) selection.State {
	session.mu.Lock()
	state := session.selection.Select(row, col)
	session.mu.Unlock()
	session.emit(Event{Kind: EventSelectionChanged})
	return state
}

// ApplyEdit sets one cell outside of key handling, for scripted edits.
// automatic marks edits produced by tooling rather than a keystroke.
func (session *Session) ApplyEdit(row, col int, code roster.ShiftCode, automatic bool) (roster.PendingEdit, error) {
	session.mu.Lock()
	if err := session.checkUsableLocked(); err != nil {
		session.mu.Unlock()
		return roster.PendingEdit{}, err
	}
	if session.status != StatusReady {
		session.mu.Unlock()
		return roster.PendingEdit{}, ErrBlocked
	}
	edit, err := session.processor.ApplyEdit(row, col, code, automatic)
	session.mu.Unlock()
	if err == nil {
		session.emit(Event{Kind: EventGridChanged}, Event{Kind: EventSyncChanged})
	}
	return edit, err
}

// NavigateMonth switches to the period delta months away. Pending
// edits of the current period are discarded and the selection is
// cleared.
func (session *Session) NavigateMonth(ctx context.Context, delta int) error {
	session.mu.Lock()
	if err := session.checkUsableLocked(); err != nil {
		session.mu.Unlock()
		return err
	}
	target := session.period.AddMonths(delta)
	if session.maxAhead >= 0 && target.MonthsAfter(roster.PeriodOf(session.clock.Now())) > session.maxAhead {
		event := session.setNoticeLocked(Notice{
			Kind:    NoticeInfo,
			Message: fmt.Sprintf("%s is not open for editing yet", target),
		})
		session.mu.Unlock()
		session.emit(event)
		return ErrBeyondHorizon
	}
	if dropped := session.queue.Discard(); len(dropped) > 0 {
		session.logger.Info("leaving period with unsaved edits", "period", session.period.String(), "edits", len(dropped))
	}
	session.period = target
	session.status = StatusLoading
	session.selection.Reset()
	session.mu.Unlock()
	session.emit(Event{Kind: EventStatusChanged}, Event{Kind: EventSelectionChanged}, Event{Kind: EventSyncChanged})

	return session.load(ctx, target, nil)
}

// Reset clears the current period on the backend. A period with no
// assignment is left alone.
func (session *Session) Reset(ctx context.Context) error {
	session.mu.Lock()
	if err := session.readyLocked(); err != nil {
		session.mu.Unlock()
		return err
	}
	if !session.store.HasAnyFilled() {
		event := session.setNoticeLocked(Notice{Kind: NoticeInfo, Message: "the roster is already empty"})
		session.mu.Unlock()
		session.emit(event)
		return nil
	}
	period := session.period
	session.queue.Discard()
	session.mu.Unlock()

	if err := session.backend.ResetPeriod(ctx, period); err != nil {
		return session.fail(err, "resetting the roster failed")
	}
	session.logger.Info("roster reset", "period", period.String())
	return session.load(ctx, period, nil)
}

// AutoGenerate asks the backend to fill the current period. Pending
// edits are discarded first. Insufficient staff and already-optimal
// outcomes open a modal notice; the grid is reloaded in every case so
// it shows what the backend holds.
func (session *Session) AutoGenerate(ctx context.Context, force bool) (roster.AutoGenerateOutcome, error) {
	session.mu.Lock()
	if err := session.readyLocked(); err != nil {
		session.mu.Unlock()
		return roster.AutoGenerateOutcome{}, err
	}
	if session.generating {
		event := session.setNoticeLocked(Notice{Kind: NoticeWarning, Message: "auto-generate is already running"})
		session.mu.Unlock()
		session.emit(event)
		return roster.AutoGenerateOutcome{}, ErrBusy
	}
	session.generating = true
	period := session.period
	session.queue.Discard()
	session.mu.Unlock()
	defer func() {
		session.mu.Lock()
		session.generating = false
		session.mu.Unlock()
	}()

	outcome, err := session.backend.AutoGenerate(ctx, period, force)
	if err != nil {
		return outcome, session.fail(err, "auto-generate failed")
	}

	var notice Notice
	switch outcome.Kind {
	case roster.OutcomeInsufficientStaff:
		notice = Notice{
			Kind:    NoticeConflict,
			Message: fmt.Sprintf("not enough nurses: %d more needed to meet the staffing rules", outcome.NeededNurses),
			Modal:   true,
			Outcome: &outcome,
		}
	case roster.OutcomeAlreadyOptimal:
		notice = Notice{
			Kind:    NoticeConflict,
			Message: "the roster already satisfies every rule",
			Modal:   true,
			Outcome: &outcome,
		}
	default:
		notice = Notice{Kind: NoticeInfo, Message: "roster generated", Outcome: &outcome}
	}
	session.mu.Lock()
	event := session.setNoticeLocked(notice)
	session.mu.Unlock()
	session.emit(event)
	session.logger.Info("auto-generate finished", "period", period.String(), "outcome", outcome.Kind.String(), "force", force)

	return outcome, session.load(ctx, period, nil)
}

// Revert rewinds the current period to history entry index.
func (session *Session) Revert(ctx context.Context, index int) error {
	session.mu.Lock()
	if err := session.readyLocked(); err != nil {
		session.mu.Unlock()
		return err
	}
	period := session.period
	session.queue.Discard()
	session.mu.Unlock()

	revision := index
	return session.load(ctx, period, &revision)
}

// Retry reloads the period after a failed load, or resubmits failed
// edits otherwise.
func (session *Session) Retry(ctx context.Context) error {
	session.mu.Lock()
	if err := session.checkUsableLocked(); err != nil {
		session.mu.Unlock()
		return err
	}
	status, period := session.status, session.period
	session.notice = nil
	session.mu.Unlock()

	if status == StatusLoadFailed {
		session.mu.Lock()
		session.status = StatusLoading
		session.mu.Unlock()
		session.emit(Event{Kind: EventStatusChanged})
		return session.load(ctx, period, nil)
	}
	session.queue.Flush()
	return nil
}

// Flush submits pending edits now, blocking for the round trip.
func (session *Session) Flush() {
	session.queue.Flush()
}

// Acknowledge closes the modal notice.
func (session *Session) Acknowledge() {
	session.mu.Lock()
	if session.modal == nil || session.modal.Kind == NoticeAuthExpired {
		session.mu.Unlock()
		return
	}
	session.modal = nil
	session.mu.Unlock()
	session.emit(Event{Kind: EventNotice})
}

// DismissNotice clears the dismissible notice.
func (session *Session) DismissNotice() {
	session.mu.Lock()
	session.notice = nil
	session.mu.Unlock()
	session.emit(Event{Kind: EventNotice})
}

// Close submits what is pending, waits for it, and shuts the queue
// down. The returned error reports edits that could not be saved.
func (session *Session) Close() error {
	session.mu.Lock()
	if session.status == StatusClosed {
		session.mu.Unlock()
		return nil
	}
	usable := session.status != StatusAuthExpired
	session.mu.Unlock()

	var err error
	if usable {
		err = session.queue.Drain()
	} else if unsaved := len(session.queue.Pending()); unsaved > 0 {
		err = fmt.Errorf("editor: %d edits not saved: %w", unsaved, ErrAuthExpired)
	}
	session.queue.Close()
	session.cancel()

	session.mu.Lock()
	session.status = StatusClosed
	session.mu.Unlock()
	return err
}

func (session *Session) readyLocked() error {
	if err := session.checkUsableLocked(); err != nil {
		return err
	}
	if session.status != StatusReady || session.modal != nil {
		return ErrBlocked
	}
	return nil
}

// fail reports a failed backend operation on the notice surface.
func (session *Session) fail(err error, message string) error {
	session.mu.Lock()
	var events []Event
	if IsAuthExpired(err) {
		events = session.expireLocked(err)
		err = ErrAuthExpired
	} else {
		events = append(events, session.setNoticeLocked(Notice{
			Kind:      NoticeNetworkError,
			Message:   message,
			Retryable: IsRetryable(err),
			Modal:     true,
			Err:       err,
		}))
	}
	session.mu.Unlock()
	session.logger.Error(message, "error", err)
	session.emit(events...)
	return err
}

// onSyncResult reconciles the grid after a batch resolves. A committed
// batch of the active period triggers a refetch; edits still pending
// are replayed on top of the refetched grid so nothing typed during
// the round trip is lost.
func (session *Session) onSyncResult(result rostersync.Result) {
	if result.Err != nil {
		session.mu.Lock()
		var events []Event
		switch {
		case IsAuthExpired(result.Err):
			events = session.expireLocked(result.Err)
		case result.Discarded:
		default:
			events = append(events, session.setNoticeLocked(Notice{
				Kind:      NoticeNetworkError,
				Message:   fmt.Sprintf("%d edits not saved", len(result.Batch.Edits)),
				Retryable: IsRetryable(result.Err),
				Err:       result.Err,
			}))
		}
		events = append(events, Event{Kind: EventSyncChanged})
		session.mu.Unlock()
		session.emit(events...)
		return
	}

	session.mu.Lock()
	current := session.period == result.Batch.Period && session.status == StatusReady
	session.mu.Unlock()
	if !current {
		session.emit(Event{Kind: EventSyncChanged})
		return
	}

	// A batch that landed after a reset or reload still changed the
	// server, so the refetch runs regardless of Discarded.
	snapshot, err := session.backend.FetchPeriod(session.ctx, result.Batch.Period, nil)

	session.mu.Lock()
	var events []Event
	switch {
	case err != nil && IsAuthExpired(err):
		events = session.expireLocked(err)
	case errors.Is(err, context.Canceled):
	case err != nil:
		events = append(events, session.setNoticeLocked(Notice{
			Kind:      NoticeNetworkError,
			Message:   "changes saved but the roster could not be refreshed",
			Retryable: true,
			Err:       err,
		}))
	case session.period != result.Batch.Period || session.status != StatusReady:
	default:
		if replaceErr := session.store.Replace(snapshot); replaceErr != nil {
			session.logger.Error("refreshed roster rejected", "error", replaceErr)
			break
		}
		session.replayLocked(session.queue.Pending())
		rows, days := session.store.Dims()
		session.selection.Resize(rows, days)
		events = append(events, Event{Kind: EventGridChanged})
	}
	events = append(events, Event{Kind: EventSyncChanged})
	session.mu.Unlock()
	if err != nil && !errors.Is(err, context.Canceled) {
		session.logger.Warn("refreshing roster after sync failed", "error", err)
	}
	session.emit(events...)
}

// replayLocked rewrites unsaved edits of the active period onto the
// store.
func (session *Session) replayLocked(edits []roster.PendingEdit) {
	period := session.store.Period()
	for _, edit := range edits {
		if edit.Period != period {
			continue
		}
		row, ok := session.store.RowIndex(edit.NurseID)
		if !ok {
			session.logger.Warn("unsaved edit for a nurse no longer on the roster", "nurse", edit.NurseID, "day", edit.Day)
			continue
		}
		if _, err := session.store.SetCell(row, edit.Day-1, edit.After); err != nil {
			session.logger.Warn("unsaved edit no longer fits the roster", "nurse", edit.NurseID, "day", edit.Day, "error", err)
		}
	}
}

// Period returns the active period.
func (session *Session) Period() roster.Period {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.period
}

// Selection returns the cursor state.
func (session *Session) Selection() selection.State {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.selection.State()
}

// Snapshot returns a copy of the grid with its annotations.
func (session *Session) Snapshot() roster.Snapshot {
	return session.store.Snapshot()
}

// Metrics derives the statistics of the current grid.
func (session *Session) Metrics() metrics.Metrics {
	snapshot := session.store.Snapshot()
	return metrics.Compute(snapshot.Grid, snapshot.Violations)
}

// HasAnyFilled reports whether any cell carries an assignment.
func (session *Session) HasAnyFilled() bool {
	return session.store.HasAnyFilled()
}

// View is everything a renderer needs, captured at one instant.
type View struct {
	Period       roster.Period
	Status       Status
	LoadError    error
	Snapshot     roster.Snapshot
	Metrics      metrics.Metrics
	Overlay      *overlay.Index
	Rules        *roster.Rules
	Calendar     roster.Calendar
	Selection    selection.State
	Sync         rostersync.Status
	Notice       *Notice
	Modal        *Notice
	OffDays      int
	HasAnyFilled bool
	Generating   bool
}

// View captures the session state for rendering.
func (session *Session) View() View {
	session.mu.Lock()
	defer session.mu.Unlock()

	snapshot := session.store.Snapshot()
	period := session.period
	view := View{
		Period:       period,
		Status:       session.status,
		LoadError:    session.loadErr,
		Snapshot:     snapshot,
		Metrics:      metrics.Compute(snapshot.Grid, snapshot.Violations),
		Calendar:     session.calendar,
		Selection:    session.selection.State(),
		Sync:         session.queue.Status(),
		OffDays:      metrics.DefaultOffDays(period, session.calendar),
		HasAnyFilled: session.store.HasAnyFilled(),
		Generating:   session.generating,
	}
	view.Overlay = overlay.Build(snapshot.Grid.Days(), snapshot.Violations, roster.RequestsIn(snapshot.Grid.Period, session.requests))
	if session.rules != nil {
		rules := *session.rules
		view.Rules = &rules
	}
	if session.notice != nil {
		notice := *session.notice
		view.Notice = &notice
	}
	if session.modal != nil {
		modal := *session.modal
		view.Modal = &modal
	}
	return view
}

// Requests returns the shift requests of the active period.
func (session *Session) Requests() []roster.RequestStatus {
	session.mu.Lock()
	defer session.mu.Unlock()
	return roster.RequestsIn(session.period, slices.Clone(session.requests))
}
