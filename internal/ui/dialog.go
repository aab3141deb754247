package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Severity tags a dialog.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

func (s Severity) title() string {
	switch s {
	case SeveritySuccess:
		return "Success"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Notice"
	}
}

const dialogWidth = 48

// dialog shows a single message until dismissed.
type dialog struct {
	severity Severity
	message  string
}

func newDialog(sev Severity, message string) *dialog {
	return &dialog{severity: sev, message: message}
}

func (d *dialog) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil, false
	}
	if key.Matches(keyMsg, keys.Confirm, keys.Escape, keys.Toggle) {
		return nil, nil, true
	}
	return d, nil, false
}

func (d *dialog) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	color := theme.SeverityColor(d.severity)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(d.severity.title()))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(d.message))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter to dismiss"))

	return placeModal(theme, color, width, height, dialogWidth, b.String())
}
