// Package datepicker is a calendar popover for choosing a single day.
//
// The picker renders a one-line trigger showing the chosen date. Opening it
// drops a month grid below the trigger. Days before today cannot be picked.
// A successful pick emits SelectedMsg and closes the grid.
//
// While open the picker holds the terminal's mouse reporting so a press
// outside its bounds can close it. Every path that closes the picker hands
// that back exactly once; hosts that drop an open picker must call Release.
package datepicker

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sinta/internal/calendar"
)

// State is whether the grid is showing.
type State int

const (
	StateClosed State = iota
	StateOpen
)

// Direction moves the view month.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// SelectedMsg carries a newly chosen date as yyyy-mm-dd.
type SelectedMsg struct {
	ID    string
	Value string
}

// Options configure a new picker.
type Options struct {
	// ID is echoed in SelectedMsg so a host with several pickers can tell
	// them apart.
	ID string
	// Value is the initial selection as yyyy-mm-dd. Anything unparseable
	// means no selection.
	Value       string
	Placeholder string
	Disabled    bool
	// Now defaults to time.Now. Its location decides where "today" is.
	Now func() time.Time
}

type Model struct {
	id          string
	placeholder string
	disabled    bool
	focused     bool
	now         func() time.Time

	state     State
	selected  *calendar.Date
	view      calendar.Month
	cursor    int
	listening bool

	// Screen position of the trigger's first cell, for mouse hit-testing.
	originX int
	originY int
}

func New(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = "Pick a date"
	}

	m := Model{
		id:          opts.ID,
		placeholder: placeholder,
		disabled:    opts.Disabled,
		now:         now,
	}
	m.Reset(opts.Value)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Today is the current date according to the picker's clock.
func (m Model) Today() calendar.Date {
	return calendar.Today(m.now())
}

func (m Model) State() State    { return m.state }
func (m Model) IsOpen() bool    { return m.state == StateOpen }
func (m Model) Disabled() bool  { return m.disabled }
func (m Model) Focused() bool   { return m.focused }
func (m Model) Listening() bool { return m.listening }

// ViewMonth is the month the grid shows.
func (m Model) ViewMonth() calendar.Month { return m.view }

// Cursor is the keyboard focus day inside the view month.
func (m Model) Cursor() int { return m.cursor }

// Value returns the selection as yyyy-mm-dd, or "".
func (m Model) Value() string {
	if m.selected == nil {
		return ""
	}
	return m.selected.String()
}

// Selected returns the chosen date, if any.
func (m Model) Selected() (calendar.Date, bool) {
	if m.selected == nil {
		return calendar.Date{}, false
	}
	return *m.selected, true
}

func (m *Model) Focus() { m.focused = true }
func (m *Model) Blur()  { m.focused = false }

// SetOrigin records where the host drew the trigger.
func (m *Model) SetOrigin(x, y int) {
	m.originX, m.originY = x, y
}

// SetValue follows an external value change. The view month stays where the
// user left it.
func (m *Model) SetValue(iso string) {
	m.selected = parseValue(iso)
}

// Reset starts a fresh session for iso: the selection is replaced, the view
// month jumps to it (or to the current month) and an open grid closes.
func (m *Model) Reset(iso string) tea.Cmd {
	m.selected = parseValue(iso)
	if m.selected != nil {
		m.view = calendar.MonthOf(*m.selected)
	} else {
		m.view = calendar.MonthOf(m.Today())
	}
	m.placeCursor()
	return m.Close()
}

// SetDisabled toggles the disabled flag. Disabling an open picker closes it.
func (m *Model) SetDisabled(disabled bool) tea.Cmd {
	m.disabled = disabled
	if disabled {
		return m.Close()
	}
	return nil
}

// Open shows the grid. It does nothing when disabled or already open.
func (m *Model) Open() tea.Cmd {
	if m.disabled || m.state == StateOpen {
		return nil
	}
	m.state = StateOpen
	m.placeCursor()
	return m.acquire()
}

// Close hides the grid.
func (m *Model) Close() tea.Cmd {
	m.state = StateClosed
	return m.release()
}

func (m *Model) Toggle() tea.Cmd {
	if m.state == StateOpen {
		return m.Close()
	}
	return m.Open()
}

// Release gives up the mouse listener for a host that is discarding the
// picker. It is safe to call on a closed picker.
func (m *Model) Release() tea.Cmd {
	return m.Close()
}

// SetViewMonth moves the grid one month. The selection is untouched.
func (m *Model) SetViewMonth(dir Direction) {
	switch dir {
	case Prev:
		m.view = m.view.Prev()
	case Next:
		m.view = m.view.Next()
	}
	m.clampCursor()
}

// JumpToToday brings the grid back to the current month with the cursor on
// today. Like SetViewMonth it leaves the selection alone.
func (m *Model) JumpToToday() {
	today := m.Today()
	m.view = calendar.MonthOf(today)
	m.cursor = today.Day
}

// SelectDay picks day of the view month. Days before today are ignored and
// leave the picker open.
func (m *Model) SelectDay(day int) tea.Cmd {
	if m.state != StateOpen || day < 1 || day > m.view.Days() {
		return nil
	}
	candidate := m.view.Date(day)
	if candidate.Before(m.Today()) {
		return nil
	}

	m.selected = &candidate
	m.cursor = day
	selected := SelectedMsg{ID: m.id, Value: candidate.String()}
	return tea.Batch(
		func() tea.Msg { return selected },
		m.Close(),
	)
}

// Cells is the grid for the view month.
func (m Model) Cells() []calendar.Cell {
	return calendar.Grid(m.view, m.selected, m.Today())
}

func (m *Model) acquire() tea.Cmd {
	if m.listening {
		return nil
	}
	m.listening = true
	return tea.EnableMouseCellMotion
}

func (m *Model) release() tea.Cmd {
	if !m.listening {
		return nil
	}
	m.listening = false
	return tea.DisableMouse
}

// placeCursor puts the keyboard cursor on the selection, today or the 1st,
// whichever is in view first.
func (m *Model) placeCursor() {
	today := m.Today()
	switch {
	case m.selected != nil && m.view.Contains(*m.selected):
		m.cursor = m.selected.Day
	case m.view.Contains(today):
		m.cursor = today.Day
	default:
		m.cursor = 1
	}
}

func (m *Model) clampCursor() {
	if m.cursor < 1 {
		m.cursor = 1
	}
	if days := m.view.Days(); m.cursor > days {
		m.cursor = days
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func parseValue(iso string) *calendar.Date {
	d, ok := calendar.Parse(iso)
	if !ok {
		return nil
	}
	return &d
}
