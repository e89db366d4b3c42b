package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sinta/internal/config"
	"sinta/internal/logs"
	"sinta/internal/scheduler"
	"sinta/internal/tui/appointments"
	"sinta/internal/tui/shared"
	"sinta/internal/tui/welcome"
)

// AppModel is the root model that dispatches to child views
type AppModel struct {
	cfg         *config.Config
	currentView ViewType
	welcomeView welcome.Model
	listView    appointments.ListModel
	showHelp    bool
	width       int
	height      int
	ready       bool
}

// NewAppModel creates the root application model
func NewAppModel(cfg *config.Config, svc appointments.Service) AppModel {
	view := ViewWelcome
	if cfg != nil && cfg.DefaultView == config.ViewAppointments {
		view = ViewAppointments
	}

	return AppModel{
		cfg:         cfg,
		currentView: view,
		welcomeView: welcome.New(),
		listView:    appointments.NewListModel(svc),
	}
}

// Init loads the appointment list in the background.
func (m AppModel) Init() tea.Cmd {
	return m.listView.Init()
}

func (m AppModel) CurrentView() ViewType {
	return m.currentView
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 3 // Reserve space for status bar
		m.welcomeView.SetSize(msg.Width, contentHeight)
		m.listView.SetSize(msg.Width, contentHeight)
		return m, nil

	case SwitchViewMsg:
		m.currentView = msg.View
		return m, nil

	case BookAppointmentMsg:
		m.currentView = ViewAppointments
		return m, m.listView.OpenCreate()

	case scheduler.DayChangedMsg:
		logs.Logger.Printf("Day changed to %s", msg.Today)
		m.listView, cmd = m.listView.Update(DataRefreshMsg{})
		return m, cmd

	case tea.MouseMsg:
		if m.currentView == ViewAppointments {
			m.listView, cmd = m.listView.Update(msg)
		}
		return m, cmd

	case tea.KeyMsg:
		// Global keys: ctrl+c always quits
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Dismiss help overlay on any key
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if m.currentView == ViewAppointments && m.listView.IsInModalState() {
			// The dialog, search or confirmation owns the keyboard.
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "1":
			m.currentView = ViewWelcome
			return m, nil
		case "2":
			m.currentView = ViewAppointments
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		}

	default:
		// Loads, saves and refreshes finish asynchronously; the list takes
		// their results whichever view is on screen.
		m.listView, cmd = m.listView.Update(msg)
		return m, cmd
	}

	switch m.currentView {
	case ViewWelcome:
		m.welcomeView, cmd = m.welcomeView.Update(msg)
	case ViewAppointments:
		m.listView, cmd = m.listView.Update(msg)
	}
	return m, cmd
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return shared.RenderHelpPopup("Sinta - Keyboard Shortcuts", helpSections, m.width, m.height)
	}

	var content string
	switch m.currentView {
	case ViewWelcome:
		content = m.welcomeView.View()
	case ViewAppointments:
		content = m.listView.View()
	}

	// Status bar hints depend on the view
	var statusText string
	switch m.currentView {
	case ViewAppointments:
		statusText = "Appointments | 1:home | ?:help | q:quit"
	default:
		statusText = "Home | 2:appointments | enter:book | ?:help | q:quit"
	}
	if m.listView.IsInModalState() && m.currentView == ViewAppointments {
		statusText = "Appointments | esc: back"
	}

	statusBar := StatusBarStyle.Width(m.width).Render(
		HelpStyle.Render(statusText),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

var helpSections = []shared.HelpSection{
	{
		Title: "Global Navigation",
		Binds: []shared.HelpBind{
			{Key: "1", Desc: "Home"},
			{Key: "2", Desc: "Appointments"},
			{Key: "?", Desc: "Show this help"},
			{Key: "q", Desc: "Quit"},
			{Key: "ctrl+c", Desc: "Force quit"},
		},
	},
	{
		Title: "Appointments",
		Binds: []shared.HelpBind{
			{Key: "j / k", Desc: "Navigate appointments"},
			{Key: "n", Desc: "Book an appointment"},
			{Key: "enter", Desc: "Open appointment"},
			{Key: "c", Desc: "Complete appointment"},
			{Key: "/", Desc: "Search"},
			{Key: "r", Desc: "Reload"},
		},
	},
	{
		Title: "Appointment Dialog",
		Binds: []shared.HelpBind{
			{Key: "tab", Desc: "Next field"},
			{Key: "ctrl+s", Desc: "Save"},
			{Key: "e", Desc: "Reschedule"},
			{Key: "a", Desc: "Attachments"},
			{Key: "esc", Desc: "Close"},
		},
	},
	{
		Title: "Calendar",
		Binds: []shared.HelpBind{
			{Key: "arrows / hjkl", Desc: "Move day"},
			{Key: "[ / ]", Desc: "Previous / next month"},
			{Key: "t", Desc: "Jump to today"},
			{Key: "enter", Desc: "Pick day"},
		},
	},
}
