package datepicker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sinta/internal/calendar"
	"sinta/internal/tui/shared"
)

// Grid geometry. Each day is two digits plus a gap.
const (
	cellWidth = 3
	gridWidth = 7*cellWidth - 1

	// The box border and horizontal padding push the grid right by two
	// cells and down by one row below the trigger.
	gridOffsetX = 2
	headerRow   = 2
	weekdayRow  = 3
	firstWeek   = 4
)

var weekdayHeaders = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

type hitKind int

const (
	hitOutside hitKind = iota
	hitTrigger
	hitInside
	hitPrev
	hitNext
	hitDay
)

type hit struct {
	kind hitKind
	day  int
}

func (m Model) triggerText() string {
	if d, ok := m.Selected(); ok {
		return "\U0001F4C5 " + d.Long()
	}
	return "\U0001F4C5 " + m.placeholder
}

func (m Model) renderTrigger() string {
	style := shared.DatePickerTriggerStyle
	switch {
	case m.disabled:
		style = shared.DatePickerDisabledStyle
	case m.selected == nil:
		style = shared.DatePickerPlaceholderStyle
	case m.focused:
		style = shared.DatePickerTriggerFocusedStyle
	}
	return style.Render(m.triggerText())
}

func (m Model) weeks() int {
	cells := len(m.Cells())
	return (cells + 6) / 7
}

// bounds is the size of everything the picker draws.
func (m Model) bounds() (width, height int) {
	width = lipgloss.Width(m.renderTrigger())
	height = 1
	if m.state == StateOpen {
		boxWidth := gridWidth + 2*gridOffsetX
		if boxWidth > width {
			width = boxWidth
		}
		// header, weekdays, weeks, help line, plus the two border rows
		height += 2 + m.weeks() + 1 + 2
	}
	return width, height
}

// hitTest maps a position relative to the trigger's first cell.
func (m Model) hitTest(x, y int) hit {
	width, height := m.bounds()
	if x < 0 || y < 0 || x >= width || y >= height {
		return hit{kind: hitOutside}
	}
	if y == 0 {
		if x < lipgloss.Width(m.renderTrigger()) {
			return hit{kind: hitTrigger}
		}
		return hit{kind: hitOutside}
	}
	if m.state != StateOpen {
		return hit{kind: hitOutside}
	}

	gx := x - gridOffsetX
	switch {
	case y == headerRow && gx == 0:
		return hit{kind: hitPrev}
	case y == headerRow && gx == gridWidth-1:
		return hit{kind: hitNext}
	case y >= firstWeek && y < firstWeek+m.weeks() && gx >= 0 && gx < gridWidth:
		index := (y-firstWeek)*7 + gx/cellWidth
		cells := m.Cells()
		if index < len(cells) && !cells[index].Blank() {
			return hit{kind: hitDay, day: cells[index].Day}
		}
	}
	return hit{kind: hitInside}
}

func (m Model) View() string {
	trigger := m.renderTrigger()
	if m.state != StateOpen {
		return trigger
	}
	return trigger + "\n" + shared.DatePickerBoxStyle.Render(m.renderGrid())
}

func (m Model) renderGrid() string {
	var s strings.Builder

	title := shared.DatePickerMonthStyle.Width(gridWidth - 2).Render(m.view.Title())
	s.WriteString(shared.DatePickerArrowStyle.Render("‹"))
	s.WriteString(title)
	s.WriteString(shared.DatePickerArrowStyle.Render("›"))
	s.WriteString("\n")

	for i, day := range weekdayHeaders {
		if i > 0 {
			s.WriteString(" ")
		}
		s.WriteString(shared.DatePickerDayHeaderStyle.Render(day))
	}
	s.WriteString("\n")

	cells := m.Cells()
	for i, cell := range cells {
		col := i % 7
		if col > 0 {
			s.WriteString(" ")
		}
		s.WriteString(m.renderCell(cell))
		if col == 6 && i != len(cells)-1 {
			s.WriteString("\n")
		}
	}
	// pad the last week so every row has the same width
	if rem := len(cells) % 7; rem != 0 {
		s.WriteString(strings.Repeat(" ", (7-rem)*cellWidth))
	}
	s.WriteString("\n")

	s.WriteString(shared.DatePickerHelpStyle.Render(fmt.Sprintf("%-*s", gridWidth, "[ ] month • esc")))
	return s.String()
}

func (m Model) renderCell(cell calendar.Cell) string {
	if cell.Blank() {
		return "  "
	}
	text := fmt.Sprintf("%2d", cell.Day)
	switch {
	case cell.Selected:
		return shared.DatePickerSelectedStyle.Render(text)
	case cell.Day == m.cursor:
		if cell.Disabled {
			return shared.DatePickerCursorStyle.Faint(true).Render(text)
		}
		return shared.DatePickerCursorStyle.Render(text)
	case cell.Today:
		return shared.DatePickerTodayStyle.Render(text)
	case cell.Disabled:
		return shared.DatePickerDisabledStyle.Render(text)
	}
	return shared.DatePickerDayStyle.Render(text)
}
