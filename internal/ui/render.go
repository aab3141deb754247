package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain renders the header, the three panes and the command bar.
func (m Model) renderMain() string {
	width := m.width
	if width < minContentWidth {
		width = minContentWidth
	}
	// Pane borders and padding take four columns.
	inner := width - 4

	sections := []string{
		m.renderHeader(),
		m.renderPane(paneFixed, "Fixed extensions", m.renderFixed(inner), width),
		m.renderPane(paneInput, "Custom extension", m.renderInput(), width),
		m.renderPane(paneChips, "Custom extensions", m.renderChips(inner), width),
		m.renderCommandBar(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderPane(p pane, title, body string, width int) string {
	styles := m.theme.Styles()
	frame := styles.Pane
	titleStyle := styles.MutedText
	if m.focus == p {
		frame = styles.FocusedPane
		titleStyle = styles.AccentText.Bold(true)
	}
	content := titleStyle.Render(title) + "\n" + body
	return frame.Width(width - 2).Render(content)
}

// renderFixed lays the catalog out as a grid of checkboxes.
func (m Model) renderFixed(width int) string {
	styles := m.theme.Styles()
	if len(m.view.Fixed) == 0 {
		return styles.FaintText.Render("No fixed extensions configured.")
	}

	perRow := width / fixedColumnWidth
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	var row strings.Builder
	for i, item := range m.view.Fixed {
		box := "[ ]"
		style := styles.Text
		if item.Checked {
			box = "[x]"
			style = styles.DangerText
		}
		cell := padRight(box+" "+item.Name, fixedColumnWidth-1)
		if m.focus == paneFixed && i == m.fixedCursor {
			row.WriteString(styles.Selected.Render(cell))
		} else {
			row.WriteString(style.Render(cell))
		}
		row.WriteString(" ")
		if (i+1)%perRow == 0 {
			rows = append(rows, row.String())
			row.Reset()
		}
	}
	if row.Len() > 0 {
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderInput() string {
	styles := m.theme.Styles()
	hint := styles.FaintText.Render("letters only, up to 20 characters")
	if m.adding {
		hint = styles.WarningText.Render("saving...")
	}
	return m.input.View() + "  " + hint
}

// renderChips renders custom extensions as removable chips.
func (m Model) renderChips(width int) string {
	styles := m.theme.Styles()
	if len(m.view.Custom) == 0 {
		return styles.FaintText.Render(emptyCustomNotice)
	}

	chips := make([]string, len(m.view.Custom))
	widths := make([]int, len(m.view.Custom))
	for i, name := range m.view.Custom {
		style := styles.Chip
		if m.focus == paneChips && i == m.chipCursor {
			style = style.
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText))
		}
		chips[i] = style.Render(name + " ×")
		widths[i] = lipgloss.Width(chips[i])
	}
	return strings.Join(wrapChips(chips, widths, width), "\n")
}
