package appointments

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sinta/internal/booking"
	"sinta/internal/notes"
	"sinta/internal/tui/datepicker"
	"sinta/internal/tui/theme"
)

const (
	pickerID = "appointment-date"

	editorWidth = 64
	editorTop   = 1
	labelWidth  = 10
	// Box width less the horizontal padding.
	editorInner = editorWidth - 4
)

var (
	editorTitleStyle = theme.Title
	editorLabelStyle = lipgloss.NewStyle().Foreground(theme.Secondary).Width(labelWidth)
	editorValueStyle = lipgloss.NewStyle().Foreground(theme.Text)
	editorHelpStyle  = theme.ModalHelp
	editorBoxStyle   = theme.ModalBox
)

type editorMode int

const (
	modeCreate editorMode = iota
	modeView
	modeEdit
	modeAttachments
)

type field int

const (
	fieldName field = iota
	fieldDate
	fieldDetails
	fieldCount
)

// EditorModel is the appointment dialog: booking a new appointment, looking
// at one, rescheduling it and managing its attachments.
type EditorModel struct {
	svc         Service
	mode        editorMode
	appt        booking.Appointment
	name        textinput.Model
	picker      datepicker.Model
	details     textarea.Model
	focus       field
	err         string
	saving      bool
	changed     bool
	justCreated bool
	// keepDate holds on to a stored date line that does not parse until the
	// user picks a replacement.
	keepDate bool
	gallery     *GalleryModel
	width       int
	height      int
}

func newEditor(svc Service) *EditorModel {
	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 120
	name.Width = editorWidth - labelWidth - 6

	details := textarea.New()
	details.Placeholder = "What is the appointment about?"
	details.ShowLineNumbers = false
	details.SetWidth(editorWidth - 6)
	details.SetHeight(5)

	return &EditorModel{
		svc:     svc,
		name:    name,
		details: details,
		picker: datepicker.New(datepicker.Options{
			ID:          pickerID,
			Placeholder: "Pick a date",
			Now:         svc.Now,
		}),
	}
}

// NewCreateEditor opens the dialog on an empty booking form.
func NewCreateEditor(svc Service) (*EditorModel, tea.Cmd) {
	m := newEditor(svc)
	m.mode = modeCreate
	return m, m.focusField(fieldName)
}

// NewViewEditor opens the dialog read-only on appt.
func NewViewEditor(svc Service, appt booking.Appointment) *EditorModel {
	m := newEditor(svc)
	m.showAppointment(appt)
	return m
}

func (m *EditorModel) showAppointment(appt booking.Appointment) {
	m.mode = modeView
	m.appt = appt
	m.name.Blur()
	m.details.Blur()
	m.picker.Blur()
	m.picker.Reset(appt.ISODate())
	m.picker.SetDisabled(true)
}

func (m *EditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.syncOrigin()
}

func (m *EditorModel) syncOrigin() {
	x, y := m.pickerOrigin()
	m.picker.SetOrigin(x, y)
}

func (m *EditorModel) left() int {
	left := (m.width - (editorWidth + 2)) / 2
	if left < 0 {
		return 0
	}
	return left
}

// pickerOrigin is the screen cell where the date trigger is drawn: below
// the border, the padding, the header, a blank line and the name line.
func (m *EditorModel) pickerOrigin() (int, int) {
	above := lipgloss.Height(m.header()) + 1 + lipgloss.Height(m.nameLine())
	return m.left() + 1 + 2 + labelWidth, editorTop + 1 + 1 + above
}

func (m *EditorModel) focusField(f field) tea.Cmd {
	m.focus = f
	m.name.Blur()
	m.details.Blur()
	m.picker.Blur()
	switch f {
	case fieldName:
		return m.name.Focus()
	case fieldDate:
		m.picker.Focus()
	case fieldDetails:
		return m.details.Focus()
	}
	return nil
}

func (m *EditorModel) editing() bool {
	return m.mode == modeCreate || m.mode == modeEdit
}

// Update handles messages for the dialog.
func (m *EditorModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case savedMsg:
		return m.handleSaved(msg)

	case galleryMsg:
		if m.gallery == nil {
			return nil
		}
		cmd := m.gallery.Update(msg)
		if msg.err == nil {
			m.appt = m.gallery.Appointment()
			m.changed = true
		}
		return cmd

	case datepicker.SelectedMsg:
		if msg.ID == pickerID && m.editing() {
			m.keepDate = false
			return m.focusField(fieldDetails)
		}
		return nil

	case tea.MouseMsg:
		if !m.editing() {
			return nil
		}
		m.syncOrigin()
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if m.picker.IsOpen() {
			m.focusField(fieldDate)
		}
		return cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeCreate, modeEdit:
			return m.handleFormKeys(msg)
		case modeView:
			return m.handleViewKeys(msg)
		case modeAttachments:
			return m.handleAttachmentKeys(msg)
		}
	}
	return nil
}

func (m *EditorModel) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	if m.saving {
		return nil
	}

	// An open calendar takes every key until it closes.
	if m.picker.IsOpen() {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "esc":
		if m.mode == modeEdit {
			m.err = ""
			m.showAppointment(m.appt)
			return nil
		}
		return m.close()
	case "ctrl+s":
		return m.save()
	case "tab":
		return m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m.focusField((m.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		if msg.String() == "enter" {
			return m.focusField(fieldDate)
		}
		m.name, cmd = m.name.Update(msg)
	case fieldDate:
		m.picker, cmd = m.picker.Update(msg)
	case fieldDetails:
		m.details, cmd = m.details.Update(msg)
	}
	return cmd
}

func (m *EditorModel) handleViewKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		return m.close()
	case "e":
		m.mode = modeEdit
		m.err = ""
		m.name.SetValue(m.appt.Name)
		m.details.SetValue(m.appt.Details)
		m.picker.SetDisabled(false)
		m.picker.Reset(m.appt.ISODate())
		m.keepDate = m.appt.HasDate && !m.appt.DateValid
		return m.focusField(fieldName)
	case "a":
		m.mode = modeAttachments
		m.justCreated = false
		m.gallery = NewGallery(m.svc, m.appt)
	}
	return nil
}

func (m *EditorModel) handleAttachmentKeys(msg tea.KeyMsg) tea.Cmd {
	if m.gallery == nil {
		return m.close()
	}
	if !m.gallery.Typing() {
		switch msg.String() {
		case "esc", "enter":
			if m.justCreated {
				return m.close()
			}
			m.showAppointment(m.gallery.Appointment())
			return nil
		}
	}
	return m.gallery.Update(msg)
}

func (m *EditorModel) save() tea.Cmd {
	name := strings.TrimSpace(m.name.Value())
	if name == "" {
		m.err = notes.ErrTitleRequired.Error()
		return m.focusField(fieldName)
	}

	draft := booking.Draft{
		Name:     name,
		Details:  m.details.Value(),
		Date:     m.picker.Value(),
		KeepDate: m.mode == modeEdit && m.keepDate && m.picker.Value() == "",
	}

	m.saving = true
	m.err = ""
	svc := m.svc

	if m.mode == modeCreate {
		return func() tea.Msg {
			appt, err := svc.Schedule(context.Background(), draft)
			return savedMsg{appt: appt, created: true, err: err}
		}
	}
	id := m.appt.ID
	return func() tea.Msg {
		appt, err := svc.Reschedule(context.Background(), id, draft)
		return savedMsg{appt: appt, err: err}
	}
}

func (m *EditorModel) handleSaved(msg savedMsg) tea.Cmd {
	m.saving = false
	if msg.err != nil {
		m.err = msg.err.Error()
		return nil
	}

	m.changed = true
	if msg.created {
		m.appt = msg.appt
		m.mode = modeAttachments
		m.justCreated = true
		m.gallery = NewGallery(m.svc, msg.appt)
		return m.picker.SetDisabled(true)
	}
	m.showAppointment(msg.appt)
	return nil
}

// close tears the dialog down, giving back the picker's mouse listener.
func (m *EditorModel) close() tea.Cmd {
	changed := m.changed
	return tea.Batch(
		m.picker.Release(),
		func() tea.Msg { return EditorClosedMsg{Changed: changed} },
	)
}

func (m *EditorModel) title() string {
	switch m.mode {
	case modeCreate:
		return "Book an appointment"
	case modeEdit:
		return "Reschedule " + m.appt.Name
	case modeAttachments:
		if m.justCreated {
			return "Appointment booked"
		}
		return "Attachments for " + m.appt.Name
	}
	return m.appt.Name
}

// header is the title clipped to one line of the dialog.
func (m *EditorModel) header() string {
	return editorTitleStyle.Render(clip(m.title(), editorInner))
}

// nameLine never wraps, so the date row below it stays put.
func (m *EditorModel) nameLine() string {
	value := m.name.View()
	if !m.editing() {
		value = editorValueStyle.Render(m.appt.Name)
	}
	return lipgloss.NewStyle().MaxWidth(editorInner).Render(m.label("Name") + value)
}

// clip shortens s to at most width cells, ending in an ellipsis.
func clip(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func (m *EditorModel) label(text string) string {
	return editorLabelStyle.Render(text)
}

func (m *EditorModel) View() string {
	var s strings.Builder

	s.WriteString(m.header())
	s.WriteString("\n\n")

	switch m.mode {
	case modeAttachments:
		if m.justCreated {
			when := "no date set"
			if m.appt.HasDate {
				when = m.appt.DateText
			}
			s.WriteString(theme.Ok.Render("✓ " + m.appt.Name + " is booked for " + when))
			s.WriteString("\n\n")
		}
		if m.gallery != nil {
			s.WriteString(m.gallery.View())
		}
		s.WriteString("\n\n")
		s.WriteString(editorHelpStyle.Render("a: add image • x: remove • j/k: move • enter/esc: done"))

	case modeView:
		s.WriteString(m.nameLine())
		s.WriteString("\n")
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.label("Date"), m.picker.View()))
		s.WriteString("\n\n")
		s.WriteString(m.label("Details"))
		s.WriteString("\n")
		if m.appt.Details == "" {
			s.WriteString(theme.Muted.Render("No details"))
		} else {
			s.WriteString(editorValueStyle.Width(editorWidth - 4).Render(m.appt.Details))
		}
		s.WriteString("\n\n")
		s.WriteString(m.label("Images") + theme.Attachment.Render(plural(len(m.appt.Images), "attachment")))
		s.WriteString("\n\n")
		s.WriteString(editorHelpStyle.Render("e: reschedule • a: attachments • esc: close"))

	default:
		s.WriteString(m.nameLine())
		s.WriteString("\n")
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.label("Date"), m.picker.View()))
		s.WriteString("\n")
		if m.keepDate {
			s.WriteString(m.label("") + theme.Warn.Render(clip("Stored date \""+m.appt.DateText+"\" is kept until you pick one", editorInner-labelWidth)))
			s.WriteString("\n")
		}
		s.WriteString("\n")
		s.WriteString(m.label("Details"))
		s.WriteString("\n")
		s.WriteString(m.details.View())
		s.WriteString("\n\n")
		if m.err != "" {
			s.WriteString(theme.Error.Render(m.err))
			s.WriteString("\n")
		}
		if m.saving {
			s.WriteString(theme.Muted.Render("Saving..."))
			s.WriteString("\n")
		}
		help := "tab: next field • enter: open calendar • ctrl+s: save • esc: cancel"
		if m.picker.IsOpen() {
			help = "arrows: move • [ ]: month • enter: pick • esc: close calendar"
		}
		s.WriteString(editorHelpStyle.Render(help))
	}

	box := editorBoxStyle.Width(editorWidth).Render(s.String())
	return lipgloss.NewStyle().MarginLeft(m.left()).MarginTop(editorTop).Render(box)
}
