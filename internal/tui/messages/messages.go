package messages

import tea "github.com/charmbracelet/bubbletea"

// ViewType represents the different views in the application
type ViewType int

const (
	ViewWelcome ViewType = iota
	ViewAppointments
)

// SwitchViewMsg is sent by child views to switch to a different view
type SwitchViewMsg struct {
	View ViewType
}

// BookAppointmentMsg switches to the appointment list with the booking
// dialog open.
type BookAppointmentMsg struct{}

// DataRefreshMsg signals that data should be reloaded
type DataRefreshMsg struct{}

func SwitchView(v ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: v}
	}
}

func BookAppointment() tea.Cmd {
	return func() tea.Msg {
		return BookAppointmentMsg{}
	}
}
