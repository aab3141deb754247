package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/blockext/internal/extapi"
	"github.com/five82/blockext/internal/extension"
	"github.com/five82/blockext/internal/prefs"
	"github.com/five82/blockext/internal/state"
	"github.com/five82/blockext/internal/syncengine"
)

// pane identifies which part of the screen has focus.
type pane int

const (
	paneFixed pane = iota
	paneInput
	paneChips
	paneCount
)

// Toggler is the part of the synchronization engine the UI drives.
type Toggler interface {
	Add(name string, checked bool)
	Events() <-chan syncengine.Event
}

// CustomEditor edits the custom extension list on the server.
type CustomEditor interface {
	AddCustom(ctx context.Context, name string) error
	DeleteCustom(ctx context.Context, name string) error
}

// Options configures the UI.
type Options struct {
	Store         *state.Store
	Engine        Toggler
	Remote        CustomEditor
	ThemeName     string
	ConfirmDelete bool
	PrefsPath     string
	Logger        *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx           context.Context
	store         *state.Store
	engine        Toggler
	remote        CustomEditor
	logger        *slog.Logger
	prefsPath     string
	confirmDelete bool
	keys          keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	focus    pane
	showHelp bool
	modal    Modal
	queued   []Modal

	// Data state
	view state.View

	// Pane state
	fixedCursor int
	chipCursor  int
	input       textinput.Model
	adding      bool
}

// New creates a new Bubble Tea model.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	input := textinput.New()
	input.Placeholder = inputPlaceholder
	input.Prompt = "› "

	m := Model{
		ctx:           ctx,
		store:         opts.Store,
		engine:        opts.Engine,
		remote:        opts.Remote,
		logger:        logger.With("component", "ui"),
		prefsPath:     opts.PrefsPath,
		confirmDelete: opts.ConfirmDelete,
		keys:          DefaultKeyMap(),
		theme:         GetTheme(themeName),
		input:         input,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(DefaultUIInterval),
		waitForEvent(m.ctx, m.engine),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.handleKey(msg)

	case tickMsg:
		m.refresh()
		return m, tickCmd(DefaultUIInterval)

	case engineEventMsg:
		m.handleEngineEvent(syncengine.Event(msg))
		return m, waitForEvent(m.ctx, m.engine)

	case customAddedMsg:
		return m.handleCustomAdded(msg), nil

	case customDeletedMsg:
		return m.handleCustomDeleted(msg), nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
		if len(m.queued) > 0 {
			m.modal = m.queued[0]
			m.queued = m.queued[1:]
			return m, cmd
		}
		if m.focus == paneInput {
			m.input.Focus()
		}
		return m, cmd
	}
	m.modal = modal
	return m, cmd
}

// showDialog opens a severity-tagged message dialog. While another modal is
// open the dialog waits its turn.
func (m *Model) showDialog(sev Severity, message string) {
	d := newDialog(sev, message)
	m.input.Blur()
	if m.modal != nil {
		m.queued = append(m.queued[:len(m.queued):len(m.queued)], d)
		return
	}
	m.modal = d
}

// refresh re-reads the store and clamps cursors to the new contents.
func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	m.view = m.store.Snapshot()
	m.fixedCursor = clamp(m.fixedCursor, len(m.view.Fixed))
	m.chipCursor = clamp(m.chipCursor, len(m.view.Custom))
}

func (m *Model) handleEngineEvent(ev syncengine.Event) {
	m.refresh()
	switch ev.Kind {
	case syncengine.EventCommitFailed:
		m.showDialog(SeverityError, ev.Message)
	case syncengine.EventCommitted:
		m.logger.Debug("batch saved", "changes", ev.Batch.Len())
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		m.setFocus((m.focus + 1) % paneCount)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.setFocus((m.focus + paneCount - 1) % paneCount)
		return m, nil
	}

	if m.focus == paneInput {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	}

	switch m.focus {
	case paneFixed:
		return m.handleFixedKey(msg)
	case paneChips:
		return m.handleChipsKey(msg)
	}
	return m, nil
}

func (m *Model) setFocus(p pane) {
	m.focus = p
	if p == paneInput {
		m.input.Focus()
		return
	}
	m.input.Blur()
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, ConfirmDelete: m.confirmDelete}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

func (m Model) handleFixedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.view.Fixed)
	if n == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up, m.keys.Left):
		if m.fixedCursor > 0 {
			m.fixedCursor--
		}
	case key.Matches(msg, m.keys.Down, m.keys.Right):
		if m.fixedCursor < n-1 {
			m.fixedCursor++
		}
	case key.Matches(msg, m.keys.Toggle, m.keys.Confirm):
		item := m.view.Fixed[m.fixedCursor]
		if m.engine != nil {
			m.engine.Add(item.Name, !item.Checked)
		}
		// The store catches up asynchronously; keys already queued must see
		// this toggle.
		m.view.Fixed = append([]state.FixedItem(nil), m.view.Fixed...)
		m.view.Fixed[m.fixedCursor].Checked = !item.Checked
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) {
		return m.submitCustom()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitCustom validates the input locally and only then calls the server.
func (m Model) submitCustom() (tea.Model, tea.Cmd) {
	if m.adding {
		return m, nil
	}
	name, err := extension.NormalizeName(m.input.Value())
	if err != nil {
		var verr *extension.ValidationError
		if errors.As(err, &verr) {
			m.showDialog(SeverityWarning, verr.Warning())
		} else {
			m.showDialog(SeverityWarning, err.Error())
		}
		return m, nil
	}
	m.adding = true
	return m, addCustomCmd(m.ctx, m.remote, name)
}

func (m Model) handleCustomAdded(msg customAddedMsg) Model {
	m.adding = false
	if msg.err != nil {
		m.logger.Warn("add custom extension failed", "name", msg.name, "error", msg.err)
		m.showDialog(SeverityError, extapi.Message(msg.err, msgAddFailed))
		return m
	}
	m.logger.Info("custom extension added", "name", msg.name)
	m.input.Reset()
	m.showDialog(SeveritySuccess, msgCustomSaved)
	return m
}

func (m Model) handleChipsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.view.Custom)
	if n == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Left, m.keys.Up):
		if m.chipCursor > 0 {
			m.chipCursor--
		}
	case key.Matches(msg, m.keys.Right, m.keys.Down):
		if m.chipCursor < n-1 {
			m.chipCursor++
		}
	case key.Matches(msg, m.keys.Delete):
		name := m.view.Custom[m.chipCursor]
		del := deleteCustomCmd(m.ctx, m.remote, name)
		if !m.confirmDelete {
			return m, del
		}
		modal, cmd := newConfirmDialog(m.theme, fmt.Sprintf(msgConfirmDelete, name), del)
		m.modal = modal
		return m, cmd
	}
	return m, nil
}

func (m Model) handleCustomDeleted(msg customDeletedMsg) Model {
	if msg.err != nil {
		m.logger.Warn("delete custom extension failed", "name", msg.name, "error", msg.err)
		m.showDialog(SeverityError, extapi.Message(msg.err, msgDeleteFailed))
		return m
	}
	m.logger.Info("custom extension deleted", "name", msg.name)
	return m
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Messages

type tickMsg time.Time

type engineEventMsg syncengine.Event

type customAddedMsg struct {
	name string
	err  error
}

type customDeletedMsg struct {
	name string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(ctx context.Context, engine Toggler) tea.Cmd {
	if engine == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev := <-engine.Events():
			return engineEventMsg(ev)
		case <-ctx.Done():
			return nil
		}
	}
}

func addCustomCmd(ctx context.Context, remote CustomEditor, name string) tea.Cmd {
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, RemoteCallTimeout)
		defer cancel()
		return customAddedMsg{name: name, err: remote.AddCustom(callCtx, name)}
	}
}

func deleteCustomCmd(ctx context.Context, remote CustomEditor, name string) tea.Cmd {
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, RemoteCallTimeout)
		defer cancel()
		return customDeletedMsg{name: name, err: remote.DeleteCustom(callCtx, name)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a state store")
	}
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
