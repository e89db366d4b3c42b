package tui

import "sinta/internal/tui/messages"

// Re-export types from messages package for convenience
type ViewType = messages.ViewType

const (
	ViewWelcome      = messages.ViewWelcome
	ViewAppointments = messages.ViewAppointments
)

type SwitchViewMsg = messages.SwitchViewMsg
type BookAppointmentMsg = messages.BookAppointmentMsg
type DataRefreshMsg = messages.DataRefreshMsg
