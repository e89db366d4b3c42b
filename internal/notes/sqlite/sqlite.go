package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sinta/internal/notes"

	_ "github.com/mattn/go-sqlite3"
)

// Storage is a notes.Backend over a local SQLite database.
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS note_images (
			note_id TEXT NOT NULL,
			ref TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (note_id, ref),
			FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_note_images_note ON note_images(note_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// List returns every note, most recently updated first.
func (s *Storage) List(ctx context.Context) ([]notes.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM notes ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var result []notes.Note
	for rows.Next() {
		var n notes.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	images, err := s.allImages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Images = images[result[i].ID]
		if result[i].Images == nil {
			result[i].Images = []string{}
		}
	}
	return result, nil
}

func (s *Storage) Get(ctx context.Context, id string) (*notes.Note, error) {
	n := &notes.Note{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get note %s: %w", id, notes.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}

	n.Images, err = s.images(ctx, id)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Storage) Create(ctx context.Context, in notes.Input) (*notes.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	n := &notes.Note{
		ID:        notes.NewID(),
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
		Images:    []string{},
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (s *Storage) Update(ctx context.Context, id string, in notes.Input) (*notes.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		in.Title, in.Content, s.now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	if err := requireRow(res, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return requireRow(res, id)
}

// === Images ===

func (s *Storage) AddImage(ctx context.Context, id, ref string) (*notes.Note, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.HasImage(ref) {
		return n, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO note_images (note_id, ref, position) VALUES (?, ?, ?)`,
		id, ref, len(n.Images),
	)
	if err != nil {
		return nil, fmt.Errorf("add image: %w", err)
	}
	if err := s.touch(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Storage) RemoveImage(ctx context.Context, id, ref string) (*notes.Note, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM note_images WHERE note_id = ? AND ref = ?`, id, ref)
	if err != nil {
		return nil, fmt.Errorf("remove image: %w", err)
	}
	if err := s.touch(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Storage) touch(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE notes SET updated_at = ? WHERE id = ?`, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch note %s: %w", id, err)
	}
	return nil
}

func (s *Storage) images(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ref FROM note_images WHERE note_id = ? ORDER BY position, rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	refs := []string{}
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (s *Storage) allImages(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT note_id, ref FROM note_images ORDER BY note_id, position, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]string)
	for rows.Next() {
		var id, ref string
		if err := rows.Scan(&id, &ref); err != nil {
			return nil, err
		}
		result[id] = append(result[id], ref)
	}
	return result, rows.Err()
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("note %s: %w", id, notes.ErrNotFound)
	}
	return nil
}
