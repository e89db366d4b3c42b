// Package welcome is the landing screen shown before the appointment list.
package welcome

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sinta/internal/tui/messages"
	"sinta/internal/tui/shared"
	"sinta/internal/tui/theme"
)

// Member is one person on the team.
type Member struct {
	Name string
	Role string
}

// Team is the one canonical team listing.
var Team = []Member{
	{Name: "Randall Graida", Role: "Software Engineer"},
	{Name: "Wilbert Laiño", Role: "Software Engineer"},
	{Name: "Mae Sujide", Role: "Project Manager"},
	{Name: "Andrew Urcia", Role: "Project Manager"},
}

const (
	heroLead   = "Save time and "
	heroFocus  = "focus"
	heroTail   = " on what matters"
	heroSub    = "Get the documents you need quickly, clearly, and confidently."
	introTitle = "Walk-in anxiety? Never again."
	introBody  = "Sinta Serve works on your schedule, allowing you to submit documents at your convenience."
	teamTitle  = "Our team"
	teamBody   = "We are a dynamic group of individuals who are passionate about what we do and dedicated to delivering the best results for our clients."
)

var (
	heroStyle      = lipgloss.NewStyle().Bold(true).Foreground(theme.TextBright)
	heroFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.Danger)
	buttonStyle    = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.TextBright).
			Background(theme.Danger).
			Padding(0, 2)
	sectionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Danger).
			PaddingLeft(2)
	memberStyle = theme.Card.Width(22)
)

type Model struct {
	offset int
	width  int
	height int
}

func New() Model {
	return Model{width: 80, height: 24}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "enter", "b":
		return m, messages.BookAppointment()
	case "a":
		return m, messages.SwitchView(messages.ViewAppointments)
	case "j", "down":
		m.offset++
		m.clampOffset()
	case "k", "up":
		if m.offset > 0 {
			m.offset--
		}
	}
	return m, nil
}

func (m *Model) clampOffset() {
	limit := len(strings.Split(m.content(), "\n")) - (m.height - 1)
	if limit < 0 {
		limit = 0
	}
	if m.offset > limit {
		m.offset = limit
	}
}

func (m Model) textWidth() int {
	w := m.width - 8
	if w > 76 {
		w = 76
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) content() string {
	width := m.textWidth()
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	hero := heroStyle.Render(heroLead) + heroFocusStyle.Render(heroFocus) + heroStyle.Render(heroTail)

	var s strings.Builder
	s.WriteString(center.Render(hero))
	s.WriteString("\n\n")
	s.WriteString(center.Render(theme.Muted.Render(heroSub)))
	s.WriteString("\n\n")
	s.WriteString(center.Render(buttonStyle.Render("Book an Appointment")))
	s.WriteString("\n\n\n")

	intro := theme.Title.Render(introTitle) + "\n\n" +
		lipgloss.NewStyle().Width(width-3).Render(introBody)
	s.WriteString(sectionStyle.Render(intro))
	s.WriteString("\n\n\n")

	s.WriteString(theme.Title.Render(teamTitle))
	s.WriteString("\n")
	s.WriteString(theme.Muted.Width(width).Render(teamBody))
	s.WriteString("\n\n")
	s.WriteString(m.renderTeam(width))

	return s.String()
}

func (m Model) renderTeam(width int) string {
	perRow := width / (lipgloss.Width(memberStyle.Render("")) + 1)
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	for i := 0; i < len(Team); i += perRow {
		end := i + perRow
		if end > len(Team) {
			end = len(Team)
		}
		var cards []string
		for _, member := range Team[i:end] {
			cards = append(cards, memberStyle.Render(theme.Bold.Render(member.Name)+"\n"+theme.Muted.Render(member.Role)))
			cards = append(cards, " ")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) View() string {
	lines := strings.Split(m.content(), "\n")
	if m.offset < len(lines) {
		lines = lines[m.offset:]
	}
	if room := m.height - 1; room > 0 && len(lines) > room {
		lines = lines[:room]
	}

	margin := (m.width - m.textWidth()) / 2
	if margin < 0 {
		margin = 0
	}
	hints := theme.HelpHint.Render("enter: book an appointment • a: appointments • j/k: scroll")
	body := lipgloss.NewStyle().MarginLeft(margin).Render(strings.Join(lines, "\n"))
	return shared.Screen(body, "", hints, m.height)
}
