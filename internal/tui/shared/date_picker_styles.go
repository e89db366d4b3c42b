package shared

import (
	"github.com/charmbracelet/lipgloss"

	"sinta/internal/tui/theme"
)

var (
	DatePickerBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(theme.Accent).
				Padding(0, 1)

	DatePickerTriggerStyle = lipgloss.NewStyle().
				Foreground(theme.Text).
				Underline(true)

	DatePickerTriggerFocusedStyle = lipgloss.NewStyle().
					Foreground(theme.TextBright).
					Background(theme.Surface).
					Underline(true)

	DatePickerPlaceholderStyle = lipgloss.NewStyle().
					Foreground(theme.TextMuted).
					Italic(true).
					Underline(true)

	DatePickerMonthStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.Accent).
				Align(lipgloss.Center)

	DatePickerArrowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.Primary)

	DatePickerDayHeaderStyle = lipgloss.NewStyle().
					Foreground(theme.TextMuted).
					Bold(true)

	DatePickerDayStyle = lipgloss.NewStyle().
				Foreground(theme.Text)

	DatePickerDisabledStyle = lipgloss.NewStyle().
				Foreground(theme.TextMuted).
				Faint(true)

	DatePickerTodayStyle = lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true).
				Underline(true)

	DatePickerSelectedStyle = lipgloss.NewStyle().
				Background(theme.Accent).
				Foreground(lipgloss.Color("0")).
				Bold(true)

	DatePickerCursorStyle = lipgloss.NewStyle().
				Background(theme.Warning).
				Foreground(lipgloss.Color("0")).
				Bold(true)

	DatePickerHelpStyle = lipgloss.NewStyle().
				Foreground(theme.TextMuted)
)
