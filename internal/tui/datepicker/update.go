package datepicker

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles keys while focused or open and mouse presses while open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.state == StateClosed {
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "enter", " ":
			return m, m.Open()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, m.Close()
	case "enter", " ":
		return m, m.SelectDay(m.cursor)
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-7)
	case "down", "j":
		m.moveCursor(7)
	case "[", "H", "pgup":
		m.SetViewMonth(Prev)
	case "]", "L", "pgdown":
		m.SetViewMonth(Next)
	case "t":
		m.JumpToToday()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	x, y := msg.X-m.originX, msg.Y-m.originY
	target := m.hitTest(x, y)

	if m.state == StateClosed {
		if target.kind == hitTrigger {
			return m, m.Open()
		}
		return m, nil
	}

	switch target.kind {
	case hitOutside:
		return m, m.Close()
	case hitTrigger:
		return m, m.Close()
	case hitPrev:
		m.SetViewMonth(Prev)
	case hitNext:
		m.SetViewMonth(Next)
	case hitDay:
		return m, m.SelectDay(target.day)
	}
	return m, nil
}
