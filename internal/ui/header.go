package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/blockext/internal/extension"
	"github.com/five82/blockext/internal/state"
)

// renderHeader renders the status bar: logo, push connection state, custom
// extension count and the time of the last applied update.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 80

	parts := []string{bg.Render("blockext", styles.Logo)}
	parts = append(parts, m.renderConnection(styles, bg, compact))

	if !m.view.Loaded {
		parts = append(parts, bg.Render("Loading extensions...", styles.WarningText.Bold(true)))
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	countStyle := styles.Text
	if m.view.Count >= extension.MaxCustom {
		countStyle = styles.DangerText
	}
	parts = append(parts,
		bg.Render("Custom:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d/%d", m.view.Count, extension.MaxCustom), countStyle),
	)
	parts = append(parts,
		bg.Render("Blocked:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.view.CheckedNames())), styles.Text),
	)

	if ts := formatTimestamp(m.view.LastMessage, time.Now()); ts != "" && !compact {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderConnection(styles Styles, bg BgStyle, compact bool) string {
	switch m.view.Conn {
	case state.ConnConnected:
		return bg.Render("● LIVE", styles.SuccessText)
	case state.ConnConnecting:
		return bg.Render("● CONNECTING", styles.WarningText)
	}
	label := bg.Render("● "+classifyConnectionError(m.view.ConnErr), styles.DangerText)
	if m.view.Reconnects > 0 {
		label += bg.Space() + bg.Render(fmt.Sprintf("retry #%d", m.view.Reconnects), styles.WarningText)
	}
	if m.view.ConnErr != nil && !compact {
		label += bg.Space() + bg.Render(truncate(m.view.ConnErr.Error(), 48), styles.FaintText)
	}
	return label
}

func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "server error"), strings.Contains(msg, "connect rejected"):
		return "REJECTED"
	default:
		return "DISCONNECTED"
	}
}

// formatTimestamp describes when the last update was applied.
func formatTimestamp(last, now time.Time) string {
	if last.IsZero() {
		return ""
	}
	age := now.Sub(last)
	switch {
	case age < 5*time.Second:
		return "updated just now"
	case age < time.Minute:
		return fmt.Sprintf("updated %ds ago", int(age.Seconds()))
	default:
		return "updated " + last.Format("15:04:05")
	}
}

// renderCommandBar renders the key hints for the focused pane.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.focus {
	case paneInput:
		commands = []cmd{
			{"enter", "Add"},
			{"tab", "Next pane"},
			{"ctrl+c", "Quit"},
		}
	case paneChips:
		commands = []cmd{
			{"h/l", "Select"},
			{"d", "Delete"},
			{"tab", "Next pane"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"j/k", "Select"},
			{"space", "Block/unblock"},
			{"tab", "Next pane"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}
