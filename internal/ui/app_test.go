package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/blockext/internal/extapi"
	"github.com/five82/blockext/internal/extension"
	"github.com/five82/blockext/internal/state"
	"github.com/five82/blockext/internal/syncengine"
)

type toggle struct {
	name    string
	checked bool
}

type fakeEngine struct {
	toggles []toggle
	events  chan syncengine.Event
}

func (f *fakeEngine) Add(name string, checked bool) {
	f.toggles = append(f.toggles, toggle{name, checked})
}

func (f *fakeEngine) Events() <-chan syncengine.Event { return f.events }

type fakeRemote struct {
	mu        sync.Mutex
	added     []string
	deleted   []string
	addErr    error
	deleteErr error
}

func (f *fakeRemote) AddCustom(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, name)
	return f.addErr
}

func (f *fakeRemote) DeleteCustom(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	return f.deleteErr
}

type fixture struct {
	model  Model
	store  *state.Store
	engine *fakeEngine
	remote *fakeRemote
}

func newFixture(t *testing.T, confirmDelete bool) *fixture {
	t.Helper()
	store := state.NewStore(extension.NewCatalog(nil))
	store.Replace([]string{"exe"}, []string{"sh", "py"}, 2)

	f := &fixture{
		store:  store,
		engine: &fakeEngine{events: make(chan syncengine.Event, 4)},
		remote: &fakeRemote{},
	}
	f.model = New(context.Background(), Options{
		Store:         store,
		Engine:        f.engine,
		Remote:        f.remote,
		ConfirmDelete: confirmDelete,
	})
	f.send(t, tea.WindowSizeMsg{Width: 100, Height: 30})
	return f
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	f.model = m
	return cmd
}

func (f *fixture) typeText(t *testing.T, s string) {
	t.Helper()
	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (f *fixture) focusInput(t *testing.T) {
	t.Helper()
	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, paneInput, f.model.focus)
}

func (f *fixture) dialog(t *testing.T) *dialog {
	t.Helper()
	d, ok := f.model.modal.(*dialog)
	require.True(t, ok, "modal is %T", f.model.modal)
	return d
}

func TestModel_ToggleSendsInverseOfRendered(t *testing.T) {
	f := newFixture(t, true)

	f.send(t, tea.KeyMsg{Type: tea.KeySpace})
	for i := 0; i < 4; i++ {
		f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	}
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []toggle{{"bat", true}, {"exe", false}}, f.engine.toggles)
}

func TestModel_RepeatedToggleFlipsEachTime(t *testing.T) {
	f := newFixture(t, true)

	f.send(t, tea.KeyMsg{Type: tea.KeySpace})
	f.send(t, tea.KeyMsg{Type: tea.KeySpace})

	assert.Equal(t, []toggle{{"bat", true}, {"bat", false}}, f.engine.toggles)
	assert.False(t, f.model.view.IsChecked("bat"))
	assert.False(t, f.store.Checked("bat"))
}

type batchRecorder struct {
	mu      sync.Mutex
	batches []extension.Batch
}

func (r *batchRecorder) CommitBatch(_ context.Context, batch extension.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch)
	return nil
}

func TestModel_CheckThenUncheckCommitsNothing(t *testing.T) {
	store := state.NewStore(extension.NewCatalog(nil))
	rec := &batchRecorder{}
	engine := syncengine.New(rec, store, syncengine.Options{
		QuietPeriod: 20 * time.Millisecond,
		DropNetZero: true,
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = engine.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-engine.Done()
	})

	f := &fixture{store: store, remote: &fakeRemote{}}
	f.model = New(ctx, Options{Store: store, Engine: engine, Remote: f.remote})
	f.send(t, tea.WindowSizeMsg{Width: 100, Height: 30})

	f.send(t, tea.KeyMsg{Type: tea.KeySpace})
	f.send(t, tea.KeyMsg{Type: tea.KeySpace})

	settleCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	require.NoError(t, engine.Settle(settleCtx))

	rec.mu.Lock()
	assert.Empty(t, rec.batches)
	rec.mu.Unlock()
	assert.False(t, store.Checked("bat"))
}

func TestModel_ValidationWarningSkipsNetwork(t *testing.T) {
	f := newFixture(t, true)
	f.focusInput(t)
	f.typeText(t, "sh1")

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, f.remote.added)
	d := f.dialog(t)
	assert.Equal(t, SeverityWarning, d.severity)
	assert.Equal(t, "Extensions cannot contain digits.", d.message)
	assert.Equal(t, "sh1", f.model.input.Value())

	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, f.model.modal)
	assert.True(t, f.model.input.Focused())
}

func TestModel_AddCustomSuccessClearsInput(t *testing.T) {
	f := newFixture(t, true)
	f.focusInput(t)
	f.typeText(t, " Go ")

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	f.send(t, cmd())

	assert.Equal(t, []string{"Go"}, f.remote.added)
	d := f.dialog(t)
	assert.Equal(t, SeveritySuccess, d.severity)
	assert.Equal(t, msgCustomSaved, d.message)
	assert.Empty(t, f.model.input.Value())
	assert.False(t, f.model.adding)
}

func TestModel_AddCustomServerErrorKeepsInput(t *testing.T) {
	f := newFixture(t, true)
	f.remote.addErr = &extapi.APIError{Status: 409, Code: extapi.CodeAlreadyExists, Message: "Extension already exists."}
	f.focusInput(t)
	f.typeText(t, "sh")

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	f.send(t, cmd())

	d := f.dialog(t)
	assert.Equal(t, SeverityError, d.severity)
	assert.Equal(t, "Extension already exists.", d.message)
	assert.Equal(t, "sh", f.model.input.Value())
}

func TestModel_AddCustomTransportErrorUsesFallback(t *testing.T) {
	f := newFixture(t, true)
	f.remote.addErr = errors.New("dial tcp: connection refused")
	f.focusInput(t)
	f.typeText(t, "sh")

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	f.send(t, cmd())

	assert.Equal(t, msgAddFailed, f.dialog(t).message)
}

func TestModel_InputSwallowsGlobalKeys(t *testing.T) {
	f := newFixture(t, true)
	f.focusInput(t)

	f.typeText(t, "qT?")
	assert.Equal(t, "qT?", f.model.input.Value())
	assert.Equal(t, paneInput, f.model.focus)
	assert.False(t, f.model.showHelp)
	assert.Equal(t, "Nightfox", f.model.theme.Name)
}

func TestModel_CommitFailureShowsErrorDialog(t *testing.T) {
	f := newFixture(t, true)

	cmd := f.send(t, engineEventMsg(syncengine.Event{
		Kind:    syncengine.EventCommitFailed,
		Message: "Failed to save changes.",
	}))

	assert.NotNil(t, cmd)
	d := f.dialog(t)
	assert.Equal(t, SeverityError, d.severity)
	assert.Equal(t, "Failed to save changes.", d.message)
}

func TestModel_EngineEventRefreshesView(t *testing.T) {
	f := newFixture(t, true)
	f.store.Replace(nil, []string{"sh"}, 1)

	f.send(t, engineEventMsg(syncengine.Event{Kind: syncengine.EventStateChanged}))

	assert.Equal(t, []string{"sh"}, f.model.view.Custom)
	assert.Equal(t, 1, f.model.view.Count)
	assert.Nil(t, f.model.modal)
}

func TestModel_DeleteWithoutConfirmation(t *testing.T) {
	f := newFixture(t, false)
	f.send(t, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, paneChips, f.model.focus)

	f.send(t, tea.KeyMsg{Type: tea.KeyRight})
	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)
	f.send(t, cmd())

	assert.Equal(t, []string{"py"}, f.remote.deleted)
	assert.Nil(t, f.model.modal)
}

func TestModel_DeleteFailureShowsError(t *testing.T) {
	f := newFixture(t, false)
	f.remote.deleteErr = &extapi.APIError{Status: 404, Message: "Extension not found."}
	f.send(t, tea.KeyMsg{Type: tea.KeyShiftTab})

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.NotNil(t, cmd)
	f.send(t, cmd())

	assert.Equal(t, []string{"sh"}, f.remote.deleted)
	assert.Equal(t, "Extension not found.", f.dialog(t).message)
}

func TestModel_DeleteConfirmationCanBeCancelled(t *testing.T) {
	f := newFixture(t, true)
	f.send(t, tea.KeyMsg{Type: tea.KeyShiftTab})

	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	_, ok := f.model.modal.(*confirmDialog)
	require.True(t, ok, "modal is %T", f.model.modal)

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Nil(t, f.model.modal)
	assert.Empty(t, f.remote.deleted)
}

func TestModel_CommitFailureWaitsBehindConfirmation(t *testing.T) {
	f := newFixture(t, true)
	f.send(t, tea.KeyMsg{Type: tea.KeyShiftTab})
	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})

	f.send(t, engineEventMsg(syncengine.Event{
		Kind:    syncengine.EventCommitFailed,
		Message: "Failed to save changes.",
	}))
	_, ok := f.model.modal.(*confirmDialog)
	require.True(t, ok, "modal is %T", f.model.modal)

	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	d := f.dialog(t)
	assert.Equal(t, SeverityError, d.severity)
	assert.Equal(t, "Failed to save changes.", d.message)

	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, f.model.modal)
	assert.Empty(t, f.remote.deleted)
}

func TestModel_DialogsShowInOrder(t *testing.T) {
	f := newFixture(t, true)

	f.send(t, engineEventMsg(syncengine.Event{Kind: syncengine.EventCommitFailed, Message: "first"}))
	f.send(t, engineEventMsg(syncengine.Event{Kind: syncengine.EventCommitFailed, Message: "second"}))
	assert.Equal(t, "first", f.dialog(t).message)

	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "second", f.dialog(t).message)

	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, f.model.modal)
}

func TestHuhTheme_FollowsPalette(t *testing.T) {
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		h := huhTheme(theme)
		assert.Equal(t, lipgloss.Color(theme.Text), h.Focused.Title.GetForeground(), name)
		assert.Equal(t, lipgloss.Color(theme.Danger), h.Focused.FocusedButton.GetBackground(), name)
		assert.Equal(t, lipgloss.Color(theme.BorderFocus), h.Focused.Base.GetBorderTopForeground(), name)
	}
}

func TestModel_ViewShowsCountAndChips(t *testing.T) {
	f := newFixture(t, true)

	out := f.model.View()
	assert.Contains(t, out, "2/200")
	assert.Contains(t, out, "sh ×")
	assert.Contains(t, out, "[x] exe")
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "success", SeveritySuccess.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
}
