package ui

import "strings"

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// wrapChips lays out rendered chips in rows no wider than width.
func wrapChips(chips []string, widths []int, width int) []string {
	var rows []string
	var row strings.Builder
	used := 0
	for i, chip := range chips {
		w := widths[i]
		if used > 0 && used+1+w > width {
			rows = append(rows, row.String())
			row.Reset()
			used = 0
		}
		if used > 0 {
			row.WriteString(" ")
			used++
		}
		row.WriteString(chip)
		used += w
	}
	if used > 0 {
		rows = append(rows, row.String())
	}
	return rows
}
