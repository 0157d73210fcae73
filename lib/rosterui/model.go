// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dutymate/dutymate-v2-sub000/lib/clock"
	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
	"github.com/dutymate/dutymate-v2-sub000/lib/selection"
)

// Config configures a Model.
type Config struct {
	// Session is the editor session to drive. Required.
	Session *editor.Session

	// Period is opened by Init. Zero leaves the session as it is.
	Period roster.Period

	// Context bounds every backend call the model starts. Defaults to
	// context.Background().
	Context context.Context

	// Keys defaults to DefaultKeyMap.
	Keys *KeyMap

	// Theme defaults to DefaultTheme.
	Theme *Theme

	// Render defaults to DefaultRenderOptions.
	Render RenderOptions

	// Logger receives operation failures. Defaults to slog.Default().
	Logger *slog.Logger

	// Clock times keydowns for autorepeat detection. Defaults to
	// clock.Real().
	Clock clock.Clock
}

// repeatWindow is the longest gap between two identical keydowns that
// is still read as terminal autorepeat. bubbletea carries no repeat
// flag, and autorepeat fires well inside this window.
const repeatWindow = 50 * time.Millisecond

// bottomLines is the fixed area under the grid: three detail lines,
// the notice, the status line and the help line.
const bottomLines = 6

// operationMsg reports the end of a backend operation run as a Cmd.
type operationMsg struct {
	Name string
	Err  error
}

// closedMsg reports that the session has drained and closed.
type closedMsg struct {
	Err error
}

// jumpState is the "/" name finder.
type jumpState struct {
	query    string
	matches  []nameMatch
	selected int
}

// Model is the bubbletea model of the roster editor.
type Model struct {
	session *editor.Session
	period  roster.Period
	ctx     context.Context
	keys    KeyMap
	theme   Theme
	options RenderOptions
	logger  *slog.Logger
	clock   clock.Clock

	// lastKey and lastKeyAt track the previous lone keydown.
	lastKey   selection.KeyEvent
	lastKeyAt time.Time

	view     editor.View
	parts    gridParts
	viewport viewport.Model
	width    int
	height   int

	matcher      *nameMatcher
	jump         *jumpState
	showHelp     bool
	confirmReset bool

	// busy names the backend operation in flight, if any.
	busy string

	logLine *logRecordMsg

	quitting bool
	closeErr error
}

// NewModel builds a model over config.Session.
func NewModel(config Config) Model {
	if config.Session == nil {
		panic("rosterui: Config.Session is required")
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	keys := DefaultKeyMap
	if config.Keys != nil {
		keys = *config.Keys
	}
	theme := DefaultTheme
	if config.Theme != nil {
		theme = *config.Theme
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	model := Model{
		session:  config.Session,
		period:   config.Period,
		ctx:      config.Context,
		keys:     keys,
		theme:    theme,
		options:  config.Render.normalized(),
		logger:   config.Logger,
		clock:    config.Clock,
		viewport: viewport.New(0, 0),
		matcher:  newNameMatcher(),
	}
	model.refresh()
	return model
}

// CloseErr is the error Session.Close returned when the user quit,
// typically edits that could not be saved.
func (model Model) CloseErr() error { return model.closeErr }

// Init opens the configured period.
func (model Model) Init() tea.Cmd {
	if model.period.IsZero() {
		return nil
	}
	period := model.period
	return model.run("loading", func(ctx context.Context) error {
		return model.session.Open(ctx, period)
	})
}

// run executes operation off the event loop.
func (model Model) run(name string, operation func(context.Context) error) tea.Cmd {
	ctx := model.ctx
	return func() tea.Msg {
		return operationMsg{Name: name, Err: operation(ctx)}
	}
}

// Update handles one message.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.layout()
		return model, nil

	case sessionEventMsg:
		model.refresh()
		return model, nil

	case operationMsg:
		if model.busy == message.Name {
			model.busy = ""
		}
		if message.Err != nil && !isExpected(message.Err) {
			model.logger.Warn("operation failed", "operation", message.Name, "error", message.Err)
		}
		model.refresh()
		return model, nil

	case closedMsg:
		model.closeErr = message.Err
		return model, tea.Quit

	case logRecordMsg:
		model.logLine = &message
		at := message.At
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{At: at}
		})

	case logRecordFadeMsg:
		if model.logLine != nil && model.logLine.At.Equal(message.At) {
			model.logLine = nil
		}
		return model, nil

	case tea.MouseMsg:
		return model.handleMouse(message)

	case tea.KeyMsg:
		return model.handleKey(message)
	}
	return model, nil
}

// isExpected reports errors the session already surfaced as a notice.
func isExpected(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, editor.ErrBeyondHorizon) ||
		errors.Is(err, editor.ErrBusy) ||
		errors.Is(err, editor.ErrBlocked) ||
		errors.Is(err, editor.ErrAuthExpired) ||
		editor.IsValidation(err)
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.Quit) {
		return model.quit()
	}
	if model.quitting {
		return model, nil
	}
	if model.jump != nil {
		return model.handleJumpKey(message)
	}
	if model.showHelp {
		model.showHelp = false
		return model, nil
	}
	if model.view.Modal != nil {
		return model.handleModalKey(message)
	}
	if model.confirmReset {
		model.confirmReset = false
		if key.Matches(message, model.keys.ConfirmReset) {
			return model.startReset()
		}
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.PreviousMonth):
		return model.startNavigate(-1)
	case key.Matches(message, model.keys.NextMonth):
		return model.startNavigate(1)
	case key.Matches(message, model.keys.Jump):
		if len(model.view.Snapshot.Grid.Rows) > 0 {
			model.jump = &jumpState{matches: model.matcher.Match(model.view.Snapshot.Grid.Rows, "")}
		}
		return model, nil
	case key.Matches(message, model.keys.AutoGenerate):
		return model.startAutoGenerate(false)
	case key.Matches(message, model.keys.Reset):
		if model.view.HasAnyFilled {
			model.confirmReset = true
			return model, nil
		}
		return model.startReset()
	case key.Matches(message, model.keys.SyncNow):
		return model.startRetry()
	case key.Matches(message, model.keys.Dismiss):
		model.session.DismissNotice()
		model.refresh()
		return model, nil
	case key.Matches(message, model.keys.Help):
		model.showHelp = true
		return model, nil
	}

	events := model.translateKey(message)
	model.markRepeat(events, message.Paste)
	for _, event := range events {
		model.session.HandleKey(event)
	}
	model.refresh()
	return model, nil
}

// translateKey maps a terminal key to selection events. A paste, or an
// IME committing several characters at once, yields one event per rune.
func (model Model) translateKey(message tea.KeyMsg) []selection.KeyEvent {
	switch {
	case key.Matches(message, model.keys.Left):
		return []selection.KeyEvent{{Kind: selection.KeyLeft}}
	case key.Matches(message, model.keys.Right):
		return []selection.KeyEvent{{Kind: selection.KeyRight}}
	case key.Matches(message, model.keys.Up):
		return []selection.KeyEvent{{Kind: selection.KeyUp}}
	case key.Matches(message, model.keys.Down):
		return []selection.KeyEvent{{Kind: selection.KeyDown}}
	case key.Matches(message, model.keys.Delete):
		return []selection.KeyEvent{{Kind: selection.KeyDelete}}
	case key.Matches(message, model.keys.Backspace):
		return []selection.KeyEvent{{Kind: selection.KeyBackspace}}
	}
	if message.Type != tea.KeyRunes || message.Alt {
		return nil
	}
	events := make([]selection.KeyEvent, 0, len(message.Runes))
	for _, r := range message.Runes {
		events = append(events, selection.Rune(r))
	}
	return events
}

// markRepeat flags a lone keydown that matches the previous one within
// repeatWindow. Pastes and multi-rune input never repeat.
func (model *Model) markRepeat(events []selection.KeyEvent, paste bool) {
	if len(events) != 1 || paste {
		model.lastKey, model.lastKeyAt = selection.KeyEvent{}, time.Time{}
		return
	}
	now := model.clock.Now()
	if !model.lastKeyAt.IsZero() && events[0] == model.lastKey && now.Sub(model.lastKeyAt) < repeatWindow {
		events[0].Repeat = true
	}
	model.lastKey, model.lastKeyAt = selection.KeyEvent{Kind: events[0].Kind, Rune: events[0].Rune}, now
}

func (model Model) handleModalKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal := model.view.Modal
	switch {
	case key.Matches(message, model.keys.ForceGenerate) && offersForce(modal):
		model.session.Acknowledge()
		return model.startAutoGenerate(true)
	case key.Matches(message, model.keys.Acknowledge), key.Matches(message, model.keys.Dismiss):
		model.session.Acknowledge()
		model.refresh()
	}
	return model, nil
}

// offersForce reports whether a modal lets the user regenerate with
// the staffing check disabled.
func offersForce(modal *editor.Notice) bool {
	return modal != nil && modal.Outcome != nil && modal.Outcome.Kind == roster.OutcomeInsufficientStaff
}

func (model Model) handleJumpKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	jump := *model.jump
	switch message.Type {
	case tea.KeyEsc:
		model.jump = nil
		return model, nil
	case tea.KeyEnter:
		model.jump = nil
		if jump.selected < len(jump.matches) {
			col := 0
			if model.view.Selection.Active {
				col = model.view.Selection.Col
			}
			model.session.Select(jump.matches[jump.selected].Row, col)
			model.refresh()
		}
		return model, nil
	case tea.KeyUp:
		jump.selected = max(jump.selected-1, 0)
	case tea.KeyDown:
		jump.selected = min(jump.selected+1, max(len(jump.matches)-1, 0))
	case tea.KeyBackspace:
		runes := []rune(jump.query)
		if len(runes) > 0 {
			jump.query = string(runes[:len(runes)-1])
		}
		jump.matches = model.matcher.Match(model.view.Snapshot.Grid.Rows, jump.query)
		jump.selected = 0
	case tea.KeyRunes, tea.KeySpace:
		jump.query += string(message.Runes)
		jump.matches = model.matcher.Match(model.view.Snapshot.Grid.Rows, jump.query)
		jump.selected = 0
	}
	model.jump = &jump
	return model, nil
}

func (model Model) handleMouse(message tea.MouseMsg) (tea.Model, tea.Cmd) {
	if message.Button == tea.MouseButtonWheelUp || message.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		model.viewport, cmd = model.viewport.Update(message)
		return model, cmd
	}
	if message.Action != tea.MouseActionPress || message.Button != tea.MouseButtonLeft {
		return model, nil
	}
	if model.jump != nil || model.view.Modal != nil {
		return model, nil
	}
	row, col, ok := model.cellAt(message.X, message.Y)
	if !ok {
		return model, nil
	}
	model.session.Select(row, col)
	model.refresh()
	return model, nil
}

// cellAt maps screen coordinates to a day cell.
func (model Model) cellAt(x, y int) (row, col int, ok bool) {
	line := y - len(model.parts.header)
	if line < 0 || line >= model.viewport.Height {
		return 0, 0, false
	}
	line += model.viewport.YOffset
	if line >= len(model.parts.lineRows) {
		return 0, 0, false
	}
	row = model.parts.lineRows[line]
	if row < 0 {
		return 0, 0, false
	}
	offset := x - model.parts.prefixWidth
	if offset < 0 {
		return 0, 0, false
	}
	col = offset / model.options.CellWidth
	if col >= model.view.Snapshot.Grid.Days() {
		return 0, 0, false
	}
	return row, col, true
}

func (model Model) quit() (tea.Model, tea.Cmd) {
	if model.quitting {
		return model, tea.Quit
	}
	model.quitting = true
	session := model.session
	return model, func() tea.Msg {
		return closedMsg{Err: session.Close()}
	}
}

func (model Model) startNavigate(delta int) (tea.Model, tea.Cmd) {
	if model.busy != "" {
		return model, nil
	}
	model.busy = "loading"
	return model, model.run(model.busy, func(ctx context.Context) error {
		return model.session.NavigateMonth(ctx, delta)
	})
}

func (model Model) startReset() (tea.Model, tea.Cmd) {
	if model.busy != "" {
		return model, nil
	}
	model.busy = "resetting"
	return model, model.run(model.busy, func(ctx context.Context) error {
		return model.session.Reset(ctx)
	})
}

func (model Model) startAutoGenerate(force bool) (tea.Model, tea.Cmd) {
	if model.busy != "" {
		return model, nil
	}
	model.busy = "generating"
	return model, model.run(model.busy, func(ctx context.Context) error {
		_, err := model.session.AutoGenerate(ctx, force)
		return err
	})
}

func (model Model) startRetry() (tea.Model, tea.Cmd) {
	if model.busy != "" {
		return model, nil
	}
	model.busy = "saving"
	return model, model.run(model.busy, func(ctx context.Context) error {
		return model.session.Retry(ctx)
	})
}

// refresh re-reads the session and re-renders the grid body.
func (model *Model) refresh() {
	model.view = model.session.View()
	model.parts = renderParts(FrameOf(model.view), model.theme, model.options)
	model.layout()
}

// layout sizes the viewport and keeps the selected row in it.
func (model *Model) layout() {
	model.viewport.Width = model.width
	if model.height > 0 {
		model.viewport.Height = max(model.height-len(model.parts.header)-len(model.parts.footer)-bottomLines, 1)
	} else {
		model.viewport.Height = len(model.parts.body)
	}
	model.viewport.SetContent(strings.Join(model.parts.body, "\n"))

	selected := model.parts.selectedLine
	if selected < 0 {
		return
	}
	last := selected
	if selected+1 < len(model.parts.lineRows) && model.parts.lineRows[selected+1] < 0 {
		last = selected + 1
	}
	switch {
	case selected < model.viewport.YOffset:
		model.viewport.SetYOffset(selected)
	case last >= model.viewport.YOffset+model.viewport.Height:
		model.viewport.SetYOffset(last - model.viewport.Height + 1)
	}
}

// View renders the model.
func (model Model) View() string {
	if model.quitting {
		return lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("saving and closing…") + "\n"
	}
	view := model.view
	switch view.Status {
	case editor.StatusLoading:
		if len(view.Snapshot.Grid.Rows) == 0 {
			return fmt.Sprintf("loading %s…\n", view.Period)
		}
	case editor.StatusLoadFailed:
		errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)
		return errorStyle.Render(fmt.Sprintf("could not load %s: %v", view.Period, view.LoadError)) + "\n" +
			model.helpLine([]key.Binding{model.keys.SyncNow, model.keys.PreviousMonth, model.keys.NextMonth, model.keys.Quit}) + "\n"
	}

	var sections []string
	sections = append(sections, model.parts.header...)
	sections = append(sections, model.viewport.View())
	sections = append(sections, model.parts.footer...)
	sections = append(sections, model.bottom()...)
	return strings.Join(sections, "\n")
}

// bottom renders the detail area, notice, status and help lines.
func (model Model) bottom() []string {
	theme := model.theme
	var lines []string
	switch {
	case model.showHelp:
		lines = append(lines, model.fullHelp()...)
	case model.view.Modal != nil:
		lines = append(lines, renderModal(*model.view.Modal, theme, model.keys)...)
	case model.jump != nil:
		lines = append(lines, model.jumpLines()...)
	default:
		lines = append(lines, renderDetail(model.view, theme)...)
	}
	for len(lines) < bottomLines-3 {
		lines = append(lines, "")
	}

	lines = append(lines, model.noticeLine(), model.statusLine())
	if model.confirmReset {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.WarningText).
			Render(fmt.Sprintf("clear every shift of %s? y to confirm, any other key cancels", model.view.Period)))
	} else {
		lines = append(lines, model.helpLine(model.keys.ShortHelp()))
	}
	return lines
}

func (model Model) noticeLine() string {
	notice := model.view.Notice
	if notice == nil {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(noticeColor(notice.Kind, model.theme))
	text := notice.Message
	if notice.Retryable {
		text += "  (" + model.keys.SyncNow.Help().Key + " " + model.keys.SyncNow.Help().Desc + ")"
	}
	return style.Render(text)
}

func noticeColor(kind editor.NoticeKind, theme Theme) lipgloss.Color {
	switch kind {
	case editor.NoticeWarning, editor.NoticeConflict:
		return theme.WarningText
	case editor.NoticeNetworkError, editor.NoticeAuthExpired:
		return theme.ErrorText
	default:
		return theme.InfoText
	}
}

func (model Model) statusLine() string {
	theme := model.theme
	if model.logLine != nil {
		color := theme.FaintText
		switch {
		case model.logLine.Level >= slog.LevelError:
			color = theme.ErrorText
		case model.logLine.Level >= slog.LevelWarn:
			color = theme.WarningText
		}
		return lipgloss.NewStyle().Foreground(color).Render(model.logLine.Summary)
	}

	sync := model.view.Sync
	var parts []string
	switch {
	case model.view.Status == editor.StatusAuthExpired:
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ErrorText).Render("signed out"))
	case sync.Failed > 0:
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ErrorText).Render(fmt.Sprintf("%d not saved", sync.Failed)))
	case sync.InFlight > 0:
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.WarningText).Render("saving…"))
	case sync.Pending > 0:
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.WarningText).Render(fmt.Sprintf("%d unsaved", sync.Pending)))
	default:
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Compliant).Render("saved"))
	}
	if model.busy != "" {
		parts = append(parts, model.busy+"…")
	} else if model.view.Generating {
		parts = append(parts, "generating…")
	}
	if model.view.Status == editor.StatusLoading {
		parts = append(parts, "loading…")
	}
	return lipgloss.NewStyle().Foreground(theme.FaintText).Render(strings.Join(parts, "  "))
}

func (model Model) helpLine(bindings []key.Binding) string {
	keyStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	descStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, keyStyle.Render(help.Key)+" "+descStyle.Render(help.Desc))
	}
	return strings.Join(parts, descStyle.Render(" • "))
}

func (model Model) fullHelp() []string {
	var lines []string
	for _, group := range model.keys.FullHelp() {
		lines = append(lines, model.helpLine(group))
	}
	return append(lines, lipgloss.NewStyle().Foreground(model.theme.HelpText).
		Render("type D E N O (or ㅇ ㄷ ㅜ ㅐ) to assign, X (ㅌ) to clear"))
}

func (model Model) jumpLines() []string {
	theme := model.theme
	jump := model.jump
	lines := []string{lipgloss.NewStyle().Foreground(theme.HeaderText).Render("find: " + jump.query + "▏")}
	var names []string
	for index, match := range jump.matches {
		if index >= 6 {
			break
		}
		style := lipgloss.NewStyle().Foreground(theme.FaintText)
		if index == jump.selected {
			style = style.Foreground(theme.SelectedForeground).Background(theme.SelectedBackground)
		}
		names = append(names, style.Render(match.Name))
	}
	if len(names) == 0 {
		names = append(names, lipgloss.NewStyle().Foreground(theme.FaintText).Render("no match"))
	}
	return append(lines, strings.Join(names, "  "))
}
