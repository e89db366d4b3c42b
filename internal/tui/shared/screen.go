package shared

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Screen lays out a full view: body from the top, then an optional status
// line and the key hints on the last rows. A body taller than the room left
// is cut at the bottom so the hints stay visible.
func Screen(body, status, hints string, height int) string {
	footer := strings.TrimRight(hints, "\n")
	if status != "" {
		footer = status + "\n" + footer
	}

	room := height - lipgloss.Height(footer)
	if room < 1 {
		return footer
	}

	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) > room {
		lines = lines[:room]
	}
	for len(lines) < room {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n" + footer
}
