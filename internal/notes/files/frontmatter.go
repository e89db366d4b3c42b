package files

import (
	"bytes"
	"fmt"
	"time"

	"sinta/internal/notes"

	"gopkg.in/yaml.v3"
)

type noteFrontmatter struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Created string   `yaml:"created"`
	Updated string   `yaml:"updated"`
	Images  []string `yaml:"images,omitempty"`
}

// parseNote splits a note file into frontmatter and body. The body is kept
// byte for byte so content round-trips unchanged.
func parseNote(content []byte) (notes.Note, error) {
	lines := bytes.Split(content, []byte("\n"))

	if len(lines) == 0 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return notes.Note{}, fmt.Errorf("missing frontmatter")
	}

	var fmEnd int
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			fmEnd = i
			break
		}
	}

	if fmEnd == 0 {
		return notes.Note{}, fmt.Errorf("unterminated frontmatter")
	}

	fmBytes := bytes.Join(lines[1:fmEnd], []byte("\n"))
	var fm noteFrontmatter
	if err := yaml.Unmarshal(fmBytes, &fm); err != nil {
		return notes.Note{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	if fm.ID == "" {
		return notes.Note{}, fmt.Errorf("frontmatter has no id")
	}

	n := notes.Note{
		ID:      fm.ID,
		Title:   fm.Title,
		Content: string(bytes.Join(lines[fmEnd+1:], []byte("\n"))),
		Images:  fm.Images,
	}
	if n.Images == nil {
		n.Images = []string{}
	}
	if parsed, err := time.Parse(time.RFC3339Nano, fm.Created); err == nil {
		n.CreatedAt = parsed
	}
	if parsed, err := time.Parse(time.RFC3339Nano, fm.Updated); err == nil {
		n.UpdatedAt = parsed
	}
	return n, nil
}

func renderNote(n notes.Note) ([]byte, error) {
	var buf bytes.Buffer

	fm := noteFrontmatter{
		ID:      n.ID,
		Title:   n.Title,
		Created: n.CreatedAt.UTC().Format(time.RFC3339Nano),
		Updated: n.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Images:  n.Images,
	}

	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}

	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n")
	buf.WriteString(n.Content)

	return buf.Bytes(), nil
}
