package appointments

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sinta/internal/booking"
	"sinta/internal/calendar"
)

// Service is the part of booking.Service the views use.
type Service interface {
	List(ctx context.Context) ([]booking.Appointment, error)
	Schedule(ctx context.Context, d booking.Draft) (booking.Appointment, error)
	Reschedule(ctx context.Context, id string, d booking.Draft) (booking.Appointment, error)
	Complete(ctx context.Context, id string) error
	Attach(ctx context.Context, id, ref string) (booking.Appointment, error)
	Detach(ctx context.Context, id, ref string) (booking.Appointment, error)
	Now() time.Time
	Today() calendar.Date
	Location() *time.Location
	Slots() int
}

type loadedMsg struct {
	list []booking.Appointment
	err  error
}

type savedMsg struct {
	appt    booking.Appointment
	created bool
	err     error
}

type completedMsg struct {
	name string
	err  error
}

type galleryMsg struct {
	appt booking.Appointment
	err  error
}

// EditorClosedMsg is sent when the appointment dialog goes away.
type EditorClosedMsg struct {
	Changed bool
}

func loadCmd(svc Service) tea.Cmd {
	return func() tea.Msg {
		list, err := svc.List(context.Background())
		return loadedMsg{list: list, err: err}
	}
}

func completeCmd(svc Service, id, name string) tea.Cmd {
	return func() tea.Msg {
		err := svc.Complete(context.Background(), id)
		return completedMsg{name: name, err: err}
	}
}
