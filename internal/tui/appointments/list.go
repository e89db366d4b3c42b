package appointments

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sinta/internal/booking"
	"sinta/internal/scheduler"
	"sinta/internal/tui/messages"
	"sinta/internal/tui/shared"
	"sinta/internal/tui/theme"
)

const cardLines = 4

var (
	listTitleStyle   = theme.Title
	cardNameStyle    = theme.Bold
	cardDateStyle    = theme.Date
	cardPreviewStyle = lipgloss.NewStyle().Foreground(theme.Text)
	searchStyle      = lipgloss.NewStyle().Foreground(theme.Success)
)

// ListModel shows the booked appointments as cards.
type ListModel struct {
	svc     Service
	all     []booking.Appointment
	visible []booking.Appointment
	loading bool
	err     error
	cursor  int

	searching bool
	search    textinput.Model
	query     string

	confirm *completeDialog

	editor *EditorModel
	status string

	width  int
	height int
}

func NewListModel(svc Service) ListModel {
	ti := textinput.New()
	ti.Placeholder = "search by name or details"
	ti.Prompt = "/"
	ti.CharLimit = 80

	return ListModel{
		svc:     svc,
		loading: true,
		search:  ti,
		width:   80,
		height:  24,
	}
}

// Init starts the first load.
func (m ListModel) Init() tea.Cmd {
	return loadCmd(m.svc)
}

func (m *ListModel) reload() tea.Cmd {
	m.loading = true
	return loadCmd(m.svc)
}

func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.editor != nil {
		m.editor.SetSize(width, height)
	}
}

// IsInModalState reports whether the list is capturing every key.
func (m ListModel) IsInModalState() bool {
	return m.editor != nil || m.confirm != nil || m.searching
}

// Appointments returns the loaded appointments in list order.
func (m ListModel) Appointments() []booking.Appointment {
	return m.all
}

// OpenCreate opens the booking dialog.
func (m *ListModel) OpenCreate() tea.Cmd {
	if m.editor != nil {
		return nil
	}
	editor, cmd := NewCreateEditor(m.svc)
	editor.SetSize(m.width, m.height)
	m.editor = editor
	return cmd
}

func (m *ListModel) openView(appt booking.Appointment) {
	m.editor = NewViewEditor(m.svc, appt)
	m.editor.SetSize(m.width, m.height)
}

func (m ListModel) selected() (booking.Appointment, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return booking.Appointment{}, false
	}
	return m.visible[m.cursor], true
}

func (m *ListModel) applyFilter() {
	m.visible = booking.Search(m.all, m.query)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.all = msg.list
			m.applyFilter()
		}
		return m, nil

	case completedMsg:
		if msg.err != nil {
			m.status = "Could not complete: " + msg.err.Error()
			return m, nil
		}
		m.status = "Completed appointment for " + msg.name
		return m, m.reload()

	case completeAnswerMsg:
		m.confirm = nil
		if !msg.confirmed {
			return m, nil
		}
		return m, completeCmd(m.svc, msg.id, msg.name)

	case EditorClosedMsg:
		m.editor = nil
		if msg.Changed {
			return m, m.reload()
		}
		return m, nil

	case scheduler.RefreshMsg, messages.DataRefreshMsg:
		if m.loading {
			return m, nil
		}
		return m, m.reload()
	}

	if m.editor != nil {
		return m, m.editor.Update(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirm != nil {
		return m, m.confirm.Update(keyMsg)
	}
	if m.searching {
		return m.handleSearchKey(keyMsg)
	}
	return m.handleKey(keyMsg)
}

func (m ListModel) handleSearchKey(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query = ""
		m.applyFilter()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = m.search.Value()
	m.cursor = 0
	m.applyFilter()
	return m, cmd
}

func (m ListModel) handleKey(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
		}
	case "/":
		m.searching = true
		m.search.SetValue(m.query)
		return m, m.search.Focus()
	case "esc":
		if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			m.applyFilter()
		}
	case "n":
		return m, m.OpenCreate()
	case "enter":
		if appt, ok := m.selected(); ok {
			m.openView(appt)
		}
	case "c":
		if appt, ok := m.selected(); ok {
			m.confirm = newCompleteDialog(appt, appt.When(m.svc.Location()))
		}
	case "r":
		if !m.loading {
			return m, m.reload()
		}
	}
	return m, nil
}

// bookedToday counts appointments on today's date.
func (m ListModel) bookedToday() int {
	today := m.svc.Today()
	n := 0
	for _, a := range m.all {
		if a.DateValid && a.Date.Equal(today) {
			n++
		}
	}
	return n
}

func plural(n int, word string) string {
	return fmt.Sprintf("%d %s(s)", n, word)
}

// Badge is the summary next to the title.
func (m ListModel) Badge() string {
	open := booking.Capacity(m.svc.Slots(), m.bookedToday())
	return fmt.Sprintf("%s • %d slots available today", plural(len(m.all), "appointment"), open)
}

func (m ListModel) View() string {
	if m.editor != nil {
		return m.editor.View()
	}
	if m.confirm != nil {
		return m.confirm.View(m.width, m.height)
	}

	header := listTitleStyle.Render("Appointments")
	if !m.loading && m.err == nil {
		header += "  " + theme.Badge.Render(m.Badge())
	}

	var lines []string
	lines = append(lines, header, "")

	if m.searching || m.query != "" {
		if m.searching {
			lines = append(lines, m.search.View())
		} else {
			lines = append(lines, searchStyle.Render("/"+m.query)+theme.Muted.Render("  (esc to clear)"))
		}
		lines = append(lines, "")
	}

	body := m.renderBody(m.height - len(lines) - 2)
	content := strings.Join(lines, "\n") + body

	hints := theme.HelpHint.Render("n: book • enter: open • c: complete • /: search • r: reload")
	status := ""
	if m.status != "" {
		status = theme.Warn.Render(m.status)
	}
	return shared.Screen(content, status, hints, m.height)
}

func (m ListModel) renderBody(height int) string {
	switch {
	case m.loading && len(m.all) == 0:
		return theme.Muted.Render("Loading appointments...")
	case m.err != nil:
		return theme.Error.Render("Could not load appointments: "+m.err.Error()) + "\n" +
			theme.HelpHint.Render("Press r to retry")
	case len(m.all) == 0:
		return theme.Muted.Render("No appointments yet.") + "\n" +
			theme.HelpHint.Render("Press n to book your first appointment")
	case len(m.visible) == 0:
		return theme.Muted.Render("No appointments match \"" + m.query + "\"")
	}

	perPage := height / (cardLines + 2)
	if perPage < 1 {
		perPage = 1
	}
	start := 0
	if m.cursor >= perPage {
		start = m.cursor - perPage + 1
	}
	end := start + perPage
	if end > len(m.visible) {
		end = len(m.visible)
	}

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, m.renderCard(m.visible[i], i == m.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m ListModel) renderCard(a booking.Appointment, focused bool) string {
	width := m.width - 4
	if width > 72 {
		width = 72
	}
	if width < 30 {
		width = 30
	}

	preview := booking.Preview(a.Details, 2)
	if preview == "" {
		preview = theme.Muted.Render("No details")
	} else {
		preview = cardPreviewStyle.Render(preview)
	}

	attachments := ""
	if n := len(a.Images); n > 0 {
		attachments = theme.Attachment.Render("\U0001F4CE " + plural(n, "attachment"))
	}

	content := strings.Join([]string{
		cardNameStyle.Render(a.Name),
		cardDateStyle.Render(a.When(m.svc.Location())),
		preview,
		attachments,
	}, "\n")

	style := theme.Card
	if focused {
		style = theme.CardFocused
	}
	return style.Width(width).MaxHeight(cardLines + 2).Render(content)
}
