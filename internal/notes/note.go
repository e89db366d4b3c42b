package notes

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned (possibly wrapped) when a note id is unknown.
	ErrNotFound = errors.New("note not found")
	// ErrTitleRequired rejects a note without a name.
	ErrTitleRequired = errors.New("Name is required")
)

// Note is a booked appointment as the backend stores it. Content is opaque to
// the backend; the appointment package owns its layout.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Images    []string  `json:"images"`
	ImageURLs []string  `json:"image_urls,omitempty"`
}

// Input carries the writable fields of a note.
type Input struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate trims the title and rejects an empty one.
func (in *Input) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return ErrTitleRequired
	}
	return nil
}

// Backend persists notes.
type Backend interface {
	List(ctx context.Context) ([]Note, error)
	Get(ctx context.Context, id string) (*Note, error)
	Create(ctx context.Context, in Input) (*Note, error)
	Update(ctx context.Context, id string, in Input) (*Note, error)
	Delete(ctx context.Context, id string) error
	// AddImage and RemoveImage attach opaque image references (paths or URLs).
	AddImage(ctx context.Context, id, ref string) (*Note, error)
	RemoveImage(ctx context.Context, id, ref string) (*Note, error)
	Close() error
}

// ImageURL returns the display URL for the i-th image, falling back to the
// reference itself when the backend did not supply one.
func (n Note) ImageURL(i int) string {
	if i < len(n.ImageURLs) && n.ImageURLs[i] != "" {
		return n.ImageURLs[i]
	}
	if i < len(n.Images) {
		return n.Images[i]
	}
	return ""
}

// HasImage reports whether ref is already attached.
func (n Note) HasImage(ref string) bool {
	for _, img := range n.Images {
		if img == ref {
			return true
		}
	}
	return false
}
