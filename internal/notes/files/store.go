// Package files stores each note as a markdown file with YAML frontmatter,
// one file per note named after its id.
package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"sinta/internal/logs"
	"sinta/internal/notes"
)

const noteExt = ".md"

// Store is a notes.Backend over a directory of markdown files.
type Store struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New returns a store rooted at dir, creating it if missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid note id %q: %w", id, notes.ErrNotFound)
	}
	return filepath.Join(s.dir, id+noteExt), nil
}

// List reads every note in the directory, most recently updated first.
// Files that fail to parse are logged and skipped.
func (s *Store) List(ctx context.Context) ([]notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read notes dir: %w", err)
	}

	var result []notes.Note
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != noteExt {
			continue
		}
		n, err := s.readFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			logs.Logger.Printf("Skipping note file %s: %v", entry.Name(), err)
			continue
		}
		result = append(result, n)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (s *Store) Get(ctx context.Context, id string) (*notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *Store) get(id string) (*notes.Note, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	n, err := s.readFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("get note %s: %w", id, notes.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	return &n, nil
}

func (s *Store) Create(ctx context.Context, in notes.Input) (*notes.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	n := notes.Note{
		ID:        notes.NewID(),
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
		Images:    []string{},
	}
	if err := s.write(n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return &n, nil
}

func (s *Store) Update(ctx context.Context, id string, in notes.Input) (*notes.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.modify(id, func(n *notes.Note) {
		n.Title = in.Title
		n.Content = in.Content
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete note %s: %w", id, notes.ErrNotFound)
		}
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

func (s *Store) AddImage(ctx context.Context, id, ref string) (*notes.Note, error) {
	return s.modify(id, func(n *notes.Note) {
		if !n.HasImage(ref) {
			n.Images = append(n.Images, ref)
		}
	})
}

func (s *Store) RemoveImage(ctx context.Context, id, ref string) (*notes.Note, error) {
	return s.modify(id, func(n *notes.Note) {
		kept := n.Images[:0]
		for _, img := range n.Images {
			if img != ref {
				kept = append(kept, img)
			}
		}
		n.Images = kept
	})
}

func (s *Store) modify(id string, fn func(*notes.Note)) (*notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.get(id)
	if err != nil {
		return nil, err
	}
	fn(n)
	n.UpdatedAt = s.now().UTC()
	if err := s.write(*n); err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	return n, nil
}

func (s *Store) readFile(path string) (notes.Note, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return notes.Note{}, err
	}
	return parseNote(content)
}

// write goes through a temp file and rename so a crash never leaves a
// half-written note behind.
func (s *Store) write(n notes.Note) error {
	p, err := s.path(n.ID)
	if err != nil {
		return err
	}
	data, err := renderNote(n)
	if err != nil {
		return err
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}
