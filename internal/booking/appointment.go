package booking

import (
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"sinta/internal/appointment"
	"sinta/internal/calendar"
	"sinta/internal/notes"
)

// Appointment is a note with its content decoded.
type Appointment struct {
	ID        string
	Name      string
	Details   string
	DateText  string
	HasDate   bool
	Date      calendar.Date
	DateValid bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Images    []string
	ImageURLs []string
}

// FromNote decodes a stored note.
func FromNote(n notes.Note) Appointment {
	d := appointment.Decode(n.Content)
	return Appointment{
		ID:        n.ID,
		Name:      n.Title,
		Details:   d.Body,
		DateText:  d.DateText,
		HasDate:   d.HasDate,
		Date:      d.Date,
		DateValid: d.DateValid,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Images:    n.Images,
		ImageURLs: n.ImageURLs,
	}
}

// ISODate returns the appointment date as yyyy-mm-dd, or "".
func (a Appointment) ISODate() string {
	if !a.DateValid {
		return ""
	}
	return a.Date.String()
}

// ImageURL mirrors notes.Note.ImageURL.
func (a Appointment) ImageURL(i int) string {
	return notes.Note{Images: a.Images, ImageURLs: a.ImageURLs}.ImageURL(i)
}

// When is the line shown under the name: the appointment date when one is
// set, otherwise when the note was last touched.
func (a Appointment) When(loc *time.Location) string {
	if a.HasDate {
		return a.DateText
	}
	if loc == nil {
		loc = time.Local
	}
	return "Created " + a.UpdatedAt.In(loc).Format("Jan 2, 2006 3:04 PM")
}

func (a Appointment) sortKey(loc *time.Location) time.Time {
	if a.DateValid {
		return a.Date.In(loc)
	}
	return a.UpdatedAt
}

// Preview renders the first paragraphs of markdown details as one line of
// plain text.
func Preview(markdown string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = 2
	}
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var preview strings.Builder
	lineCount := 0

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindHeading, ast.KindFencedCodeBlock, ast.KindCodeBlock:
			return ast.WalkSkipChildren, nil
		case ast.KindParagraph:
			if lineCount >= maxLines {
				return ast.WalkStop, nil
			}
			if t := strings.TrimSpace(string(n.Text(source))); t != "" {
				if preview.Len() > 0 {
					preview.WriteString(" ")
				}
				preview.WriteString(t)
				lineCount++
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	out := []rune(preview.String())
	if len(out) > 80 {
		return string(out[:77]) + "..."
	}
	return string(out)
}
