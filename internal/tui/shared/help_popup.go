package shared

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sinta/internal/tui/theme"
)

// HelpBind is one key and what it does.
type HelpBind struct {
	Key  string
	Desc string
}

// HelpSection groups the keys of one screen or dialog.
type HelpSection struct {
	Title string
	Binds []HelpBind
}

var (
	helpTitleStyle   = theme.Title
	helpSectionStyle = theme.Subtitle
	helpKeyStyle     = lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)
	helpDescStyle    = lipgloss.NewStyle().Foreground(theme.Text)
	helpBoxStyle     = theme.ModalBox
)

const helpColumnGap = 4

// RenderHelpPopup draws the sections in a box centred on the screen. They
// go side by side in two columns when the screen is wide enough.
func RenderHelpPopup(title string, sections []HelpSection, width, height int) string {
	keyWidth := 0
	for _, section := range sections {
		for _, bind := range section.Binds {
			keyWidth = max(keyWidth, lipgloss.Width(bind.Key))
		}
	}

	blocks := make([]string, len(sections))
	widest := 0
	for i, section := range sections {
		blocks[i] = renderHelpSection(section, keyWidth+2)
		widest = max(widest, lipgloss.Width(blocks[i]))
	}

	var body string
	// box border and padding take six columns
	if 2*widest+helpColumnGap+6 <= width && len(blocks) > 1 {
		half := (len(blocks) + 1) / 2
		left := lipgloss.NewStyle().Width(widest + helpColumnGap).Render(joinBlocks(blocks[:half]))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, joinBlocks(blocks[half:]))
	} else {
		body = joinBlocks(blocks)
	}

	content := helpTitleStyle.Render(title) + "\n\n" + body + "\n\n" +
		theme.HelpHint.Render("Press any key to close")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpBoxStyle.Render(content))
}

func renderHelpSection(section HelpSection, keyWidth int) string {
	var s strings.Builder
	s.WriteString(helpSectionStyle.Render(section.Title))
	for _, bind := range section.Binds {
		s.WriteString("\n")
		s.WriteString(helpKeyStyle.Width(keyWidth).Render(bind.Key))
		s.WriteString(helpDescStyle.Render(bind.Desc))
	}
	return s.String()
}

func joinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}
