// Package calsync turns appointments into iCalendar events, either as an .ics
// export or published to a CalDAV calendar.
package calsync

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"sinta/internal/booking"
)

const productID = "-//Sinta//Appointments//EN"

// ErrNothingToExport is returned when no appointment carries a usable date.
var ErrNothingToExport = errors.New("no dated appointments to export")

// UID is the stable event id for an appointment.
func UID(id string) string {
	return id + "@sinta"
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	return cal
}

// ToEvent builds an all-day VEVENT. ok is false when the appointment has no
// usable date.
func ToEvent(a booking.Appointment, stamp time.Time) (*ical.Event, bool) {
	if !a.DateValid {
		return nil, false
	}

	start := a.Date.In(time.UTC)

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, UID(a.ID))
	vevent.Props.SetText(ical.PropSummary, a.Name)
	if a.Details != "" {
		vevent.Props.SetText(ical.PropDescription, a.Details)
	}
	vevent.Props.SetDate(ical.PropDateTimeStart, start)
	vevent.Props.SetDate(ical.PropDateTimeEnd, start.AddDate(0, 0, 1))
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	return vevent, true
}

// Export writes one VCALENDAR holding every dated appointment and returns how
// many events it wrote.
func Export(w io.Writer, list []booking.Appointment, stamp time.Time) (int, error) {
	cal := newCalendar()
	for _, a := range list {
		if vevent, ok := ToEvent(a, stamp); ok {
			cal.Children = append(cal.Children, vevent.Component)
		}
	}
	if len(cal.Children) == 0 {
		return 0, ErrNothingToExport
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("encode calendar: %w", err)
	}
	return len(cal.Children), nil
}
