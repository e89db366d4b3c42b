// Package booking schedules, reschedules and completes appointments on top of
// a notes backend.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"sinta/internal/appointment"
	"sinta/internal/calendar"
	"sinta/internal/logs"
	"sinta/internal/notes"
)

// DefaultSlots is how many appointments a day can hold unless configured.
const DefaultSlots = 10

var (
	ErrPastDate    = errors.New("appointment date is in the past")
	ErrInvalidDate = errors.New("appointment date must be YYYY-MM-DD")
)

// Draft is what the booking form collects.
type Draft struct {
	Name    string
	Details string
	// Date is yyyy-mm-dd or empty.
	Date string
	// KeepDate leaves the stored date line alone and ignores Date.
	KeepDate bool
}

// Publisher mirrors appointments somewhere else, e.g. a shared calendar.
type Publisher interface {
	Publish(ctx context.Context, a Appointment) error
	Unpublish(ctx context.Context, id string) error
}

type Service struct {
	backend   notes.Backend
	publisher Publisher
	now       func() time.Time
	loc       *time.Location
	slots     int
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithSlots(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.slots = n
		}
	}
}

func New(backend notes.Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		now:     time.Now,
		loc:     time.Local,
		slots:   DefaultSlots,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the service clock in the service's location.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Today is the current date in the service's location.
func (s *Service) Today() calendar.Date {
	return calendar.Today(s.Now())
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Slots() int {
	return s.slots
}

// List returns every appointment, latest appointment date first. Notes without
// a date sort by their last update.
func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	list, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	result := make([]Appointment, 0, len(list))
	for _, n := range list {
		result = append(result, FromNote(n))
	}
	Sort(result, s.loc)
	return result, nil
}

// Sort orders appointments newest first, keeping the input order on ties.
func Sort(list []Appointment, loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].sortKey(loc).After(list[j].sortKey(loc))
	})
}

func (s *Service) Get(ctx context.Context, id string) (Appointment, error) {
	n, err := s.backend.Get(ctx, id)
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to load appointment %s: %w", id, err)
	}
	return FromNote(*n), nil
}

func (s *Service) checkDate(iso string) error {
	if iso == "" {
		return nil
	}
	d, ok := calendar.Parse(iso)
	if !ok {
		return ErrInvalidDate
	}
	if d.Before(s.Today()) {
		return ErrPastDate
	}
	return nil
}

// Schedule books a new appointment.
func (s *Service) Schedule(ctx context.Context, d Draft) (Appointment, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Appointment{}, notes.ErrTitleRequired
	}
	if err := s.checkDate(d.Date); err != nil {
		return Appointment{}, err
	}

	n, err := s.backend.Create(ctx, notes.Input{
		Title:   name,
		Content: appointment.Encode(d.Details, d.Date),
	})
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to book appointment: %w", err)
	}

	a := FromNote(*n)
	logs.Logger.Printf("Booked appointment %s for %q on %q", a.ID, a.Name, a.DateText)
	s.publish(ctx, a)
	return a, nil
}

// Reschedule rewrites an existing appointment. The stored content is cleaned
// and encoded again, so the date marker never repeats. Keeping an existing
// past date is allowed; moving to a past date is not.
func (s *Service) Reschedule(ctx context.Context, id string, d Draft) (Appointment, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Appointment{}, notes.ErrTitleRequired
	}

	current, err := s.backend.Get(ctx, id)
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to load appointment %s: %w", id, err)
	}
	var content string
	switch {
	case d.KeepDate:
		content = appointment.KeepDate(current.Content, d.Details)
	case d.Date != appointment.Decode(current.Content).ISODate():
		if err := s.checkDate(d.Date); err != nil {
			return Appointment{}, err
		}
		fallthrough
	default:
		content = appointment.Reencode(d.Details, d.Date)
	}

	n, err := s.backend.Update(ctx, id, notes.Input{
		Title:   name,
		Content: content,
	})
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to update appointment %s: %w", id, err)
	}

	a := FromNote(*n)
	logs.Logger.Printf("Rescheduled appointment %s to %q", a.ID, a.DateText)
	if a.DateValid {
		s.publish(ctx, a)
	} else {
		s.unpublish(ctx, a.ID)
	}
	return a, nil
}

// Complete marks an appointment as served, which removes it.
func (s *Service) Complete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to complete appointment %s: %w", id, err)
	}
	logs.Logger.Printf("Completed appointment %s", id)
	s.unpublish(ctx, id)
	return nil
}

func (s *Service) Attach(ctx context.Context, id, ref string) (Appointment, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Appointment{}, errors.New("image reference is empty")
	}
	n, err := s.backend.AddImage(ctx, id, ref)
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to attach %s: %w", ref, err)
	}
	return FromNote(*n), nil
}

func (s *Service) Detach(ctx context.Context, id, ref string) (Appointment, error) {
	n, err := s.backend.RemoveImage(ctx, id, ref)
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to remove %s: %w", ref, err)
	}
	return FromNote(*n), nil
}

// Resolve finds the appointment whose id equals or uniquely starts with
// prefix.
func Resolve(list []Appointment, prefix string) (Appointment, error) {
	var found []Appointment
	for _, a := range list {
		if a.ID == prefix {
			return a, nil
		}
		if strings.HasPrefix(a.ID, prefix) {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return Appointment{}, fmt.Errorf("no appointment matching %q: %w", prefix, notes.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return Appointment{}, fmt.Errorf("ambiguous id %q matches %d appointments", prefix, len(found))
	}
}

// Search fuzzy-matches query against name and details, best match first.
// An empty query returns list unchanged.
func Search(list []Appointment, query string) []Appointment {
	if query == "" {
		return list
	}
	names := make([]string, len(list))
	for i, a := range list {
		names[i] = a.Name + " " + a.Details
	}
	matches := fuzzy.Find(query, names)
	result := make([]Appointment, 0, len(matches))
	for _, match := range matches {
		result = append(result, list[match.Index])
	}
	return result
}

// Capacity is the number of slots still open.
func Capacity(total, booked int) int {
	if booked >= total {
		return 0
	}
	return total - booked
}

func (s *Service) publish(ctx context.Context, a Appointment) {
	if s.publisher == nil || !a.DateValid {
		return
	}
	if err := s.publisher.Publish(ctx, a); err != nil {
		logs.Logger.Printf("Failed to publish appointment %s: %v", a.ID, err)
	}
}

func (s *Service) unpublish(ctx context.Context, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Unpublish(ctx, id); err != nil {
		logs.Logger.Printf("Failed to unpublish appointment %s: %v", id, err)
	}
}
