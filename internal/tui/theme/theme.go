package theme

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Color palette: ANSI 0-15 plus one 256-color surface
// ---------------------------------------------------------------------------

var (
	Text       = lipgloss.Color("7")
	TextMuted  = lipgloss.Color("8")
	TextBright = lipgloss.Color("15")

	Primary       = lipgloss.Color("4")   // blue
	Secondary     = lipgloss.Color("6")   // cyan
	Accent        = lipgloss.Color("5")   // magenta
	Success       = lipgloss.Color("2")   // green
	Warning       = lipgloss.Color("3")   // yellow
	Danger        = lipgloss.Color("1")   // red
	Surface       = lipgloss.Color("236") // dark bg
	Border        = lipgloss.Color("8")   // dim
	BorderFocused = lipgloss.Color("4")   // blue
)

// ---------------------------------------------------------------------------
// Semantic text styles
// ---------------------------------------------------------------------------

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Muted    = lipgloss.NewStyle().Foreground(TextMuted)
	Bold     = lipgloss.NewStyle().Bold(true)

	Error = lipgloss.NewStyle().Bold(true).Foreground(Danger)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(Warning)
	Ok    = lipgloss.NewStyle().Bold(true).Foreground(Success)

	Cursor     = lipgloss.NewStyle().Bold(true).Foreground(Success)
	Selected   = lipgloss.NewStyle().Bold(true).Foreground(Warning)
	SelectedBg = lipgloss.NewStyle().Foreground(TextBright).Background(Surface)

	Date       = lipgloss.NewStyle().Foreground(Accent)
	Attachment = lipgloss.NewStyle().Foreground(Secondary)
)

// ---------------------------------------------------------------------------
// Reusable component helpers
// ---------------------------------------------------------------------------

var (
	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Warning)

	ModalHelp = lipgloss.NewStyle().Foreground(TextMuted)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	HelpHint = lipgloss.NewStyle().Foreground(TextMuted)

	NavActive   = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	NavInactive = lipgloss.NewStyle().Foreground(TextMuted)

	Badge = lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(Secondary).
		Padding(0, 1)

	Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	CardFocused = Card.BorderForeground(BorderFocused)
)
