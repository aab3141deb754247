package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// confirmDialog asks a yes/no question with a huh form and runs onConfirm
// when the answer is yes.
type confirmDialog struct {
	form      *huh.Form
	answer    *bool
	onConfirm tea.Cmd
}

func newConfirmDialog(theme Theme, question string, onConfirm tea.Cmd) (*confirmDialog, tea.Cmd) {
	answer := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&answer),
		),
	).WithTheme(huhTheme(theme)).
		WithWidth(dialogWidth).
		WithShowHelp(false)

	c := &confirmDialog{form: form, answer: &answer, onConfirm: onConfirm}
	return c, form.Init()
}

func (c *confirmDialog) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.Escape) {
		return nil, nil, true
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	switch c.form.State {
	case huh.StateCompleted:
		if *c.answer {
			return nil, c.onConfirm, true
		}
		return nil, nil, true
	case huh.StateAborted:
		return nil, nil, true
	}
	return c, cmd, false
}

func (c *confirmDialog) View(theme Theme, width, height int) string {
	return placeModal(theme, theme.Warning, width, height, dialogWidth+6, c.form.View())
}

// huhTheme maps a palette onto the huh form styles so the confirmation
// matches the rest of the screen.
func huhTheme(t Theme) *huh.Theme {
	h := huh.ThemeBase()
	h.Focused.Base = h.Focused.Base.BorderForeground(lipgloss.Color(t.BorderFocus))
	h.Focused.Title = h.Focused.Title.Foreground(lipgloss.Color(t.Text)).Bold(true)
	h.Focused.Description = h.Focused.Description.Foreground(lipgloss.Color(t.Muted))
	h.Focused.ErrorIndicator = h.Focused.ErrorIndicator.Foreground(lipgloss.Color(t.Danger))
	h.Focused.ErrorMessage = h.Focused.ErrorMessage.Foreground(lipgloss.Color(t.Danger))
	h.Focused.FocusedButton = h.Focused.FocusedButton.
		Foreground(lipgloss.Color(t.SelectionText)).
		Background(lipgloss.Color(t.Danger)).
		Bold(true)
	h.Focused.BlurredButton = h.Focused.BlurredButton.
		Foreground(lipgloss.Color(t.Text)).
		Background(lipgloss.Color(t.SurfaceAlt))

	h.Blurred = h.Focused
	h.Blurred.Base = h.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	return h
}
