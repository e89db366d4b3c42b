package appointments

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sinta/internal/booking"
	"sinta/internal/tui/theme"
)

var (
	galleryItemStyle   = lipgloss.NewStyle().Foreground(theme.Text)
	galleryCursorStyle = theme.Cursor
	galleryURLStyle    = theme.Muted
)

// GalleryModel lists and edits the images attached to one appointment.
type GalleryModel struct {
	svc    Service
	appt   booking.Appointment
	cursor int
	input  textinput.Model
	typing bool
	busy   bool
	err    string
}

func NewGallery(svc Service, appt booking.Appointment) *GalleryModel {
	ti := textinput.New()
	ti.Placeholder = "path or URL of the image"
	ti.CharLimit = 512
	ti.Width = 50

	return &GalleryModel{
		svc:   svc,
		appt:  appt,
		input: ti,
	}
}

// Typing reports whether the add-image input has the keyboard.
func (g *GalleryModel) Typing() bool {
	return g.typing
}

func (g *GalleryModel) Appointment() booking.Appointment {
	return g.appt
}

func (g *GalleryModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case galleryMsg:
		g.busy = false
		if msg.err != nil {
			g.err = msg.err.Error()
			return nil
		}
		g.err = ""
		g.appt = msg.appt
		if g.cursor >= len(g.appt.Images) {
			g.cursor = len(g.appt.Images) - 1
		}
		if g.cursor < 0 {
			g.cursor = 0
		}
		return nil

	case tea.KeyMsg:
		if g.typing {
			return g.handleInput(msg)
		}
		return g.handleKey(msg)
	}
	return nil
}

func (g *GalleryModel) handleInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		g.typing = false
		g.input.Blur()
		g.input.SetValue("")
		return nil
	case "enter":
		ref := strings.TrimSpace(g.input.Value())
		g.typing = false
		g.input.Blur()
		g.input.SetValue("")
		if ref == "" {
			return nil
		}
		return g.attach(ref)
	}
	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	return cmd
}

func (g *GalleryModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if g.busy {
		return nil
	}
	switch msg.String() {
	case "j", "down":
		if g.cursor < len(g.appt.Images)-1 {
			g.cursor++
		}
	case "k", "up":
		if g.cursor > 0 {
			g.cursor--
		}
	case "a":
		g.typing = true
		g.err = ""
		return g.input.Focus()
	case "x", "d":
		if len(g.appt.Images) == 0 {
			return nil
		}
		return g.detach(g.appt.Images[g.cursor])
	}
	return nil
}

func (g *GalleryModel) attach(ref string) tea.Cmd {
	g.busy = true
	svc, id := g.svc, g.appt.ID
	return func() tea.Msg {
		appt, err := svc.Attach(context.Background(), id, ref)
		return galleryMsg{appt: appt, err: err}
	}
}

func (g *GalleryModel) detach(ref string) tea.Cmd {
	g.busy = true
	svc, id := g.svc, g.appt.ID
	return func() tea.Msg {
		appt, err := svc.Detach(context.Background(), id, ref)
		return galleryMsg{appt: appt, err: err}
	}
}

func (g *GalleryModel) View() string {
	var s strings.Builder

	s.WriteString(theme.Subtitle.Render(fmt.Sprintf("Attachments (%d)", len(g.appt.Images))))
	s.WriteString("\n")

	if len(g.appt.Images) == 0 {
		s.WriteString(theme.Muted.Render("  No images attached yet"))
		s.WriteString("\n")
	}
	for i, ref := range g.appt.Images {
		prefix := "  "
		style := galleryItemStyle
		if i == g.cursor {
			prefix = "> "
			style = galleryCursorStyle
		}
		line := prefix + style.Render(ref)
		if url := g.appt.ImageURL(i); url != ref {
			line += " " + galleryURLStyle.Render(url)
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	if g.typing {
		s.WriteString("\n")
		s.WriteString(g.input.View())
		s.WriteString("\n")
	}
	if g.busy {
		s.WriteString(theme.Muted.Render("Saving..."))
		s.WriteString("\n")
	}
	if g.err != "" {
		s.WriteString(theme.Error.Render(g.err))
		s.WriteString("\n")
	}
	return strings.TrimRight(s.String(), "\n")
}
