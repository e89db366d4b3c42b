package appointments

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sinta/internal/booking"
	"sinta/internal/tui/theme"
)

const confirmWidth = 50

// completeDialog asks before an appointment is completed and removed.
type completeDialog struct {
	id   string
	name string
	when string
}

// completeAnswerMsg is the answer to a completeDialog.
type completeAnswerMsg struct {
	id        string
	name      string
	confirmed bool
}

func newCompleteDialog(a booking.Appointment, when string) *completeDialog {
	return &completeDialog{id: a.ID, name: a.Name, when: when}
}

func (d *completeDialog) answer(confirmed bool) tea.Cmd {
	msg := completeAnswerMsg{id: d.id, name: d.name, confirmed: confirmed}
	return func() tea.Msg { return msg }
}

func (d *completeDialog) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		return d.answer(true)
	case "n", "esc":
		return d.answer(false)
	}
	return nil
}

func (d *completeDialog) View(width, height int) string {
	body := theme.ModalTitle.Render("Complete this appointment?") + "\n\n" +
		theme.Bold.Render(clip(d.name, confirmWidth-4)) + "\n" +
		theme.Date.Render(d.when) + "\n\n" +
		theme.Muted.Render("It will be removed from the list.") + "\n\n" +
		theme.Ok.Render("[y]") + " Complete  " + theme.Error.Render("[n/esc]") + " Keep"

	box := theme.ModalBox.Width(confirmWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
