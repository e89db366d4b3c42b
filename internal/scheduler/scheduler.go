// Package scheduler wakes the UI when the date rolls over and on a refresh
// interval.
package scheduler

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"

	"sinta/internal/calendar"
	"sinta/internal/logs"
)

const midnightSpec = "0 0 * * *"

// DayChangedMsg is sent at local midnight. Today and the set of disabled
// dates change with it.
type DayChangedMsg struct {
	Today calendar.Date
}

// RefreshMsg asks the appointment list to reload.
type RefreshMsg struct{}

type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	refresh  time.Duration
	send     func(tea.Msg)
	now      func() time.Time
}

// New creates a scheduler that delivers its messages through send, usually
// a running program's Send. A refresh of zero disables the refresh job.
func New(location *time.Location, refresh time.Duration, send func(tea.Msg)) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		location: location,
		refresh:  refresh,
		send:     send,
		now:      time.Now,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(midnightSpec, s.dayChanged); err != nil {
		return fmt.Errorf("add midnight job: %w", err)
	}

	if s.refresh > 0 {
		refreshSpec := fmt.Sprintf("@every %s", s.refresh)
		if _, err := s.cron.AddFunc(refreshSpec, s.refreshList); err != nil {
			return fmt.Errorf("add refresh job: %w", err)
		}
	}

	s.cron.Start()
	logs.Logger.Printf("Scheduler started (TZ: %s, refresh: %s)", s.location, s.refresh)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logs.Logger.Println("Scheduler stopped")
}

func (s *Scheduler) dayChanged() {
	if s.send == nil {
		return
	}
	today := calendar.Today(s.now().In(s.location))
	logs.Logger.Printf("Day changed to %s", today)
	s.send(DayChangedMsg{Today: today})
}

func (s *Scheduler) refreshList() {
	if s.send == nil {
		return
	}
	s.send(RefreshMsg{})
}
