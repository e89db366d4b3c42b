package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"sinta/internal/notes"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", "sinta.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestCreateGetList(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first, err := s.Create(ctx, notes.Input{Title: "  Ana Cruz ", Content: "Transcript"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if first.Title != "Ana Cruz" {
		t.Errorf("expected trimmed title, got %q", first.Title)
	}
	if first.ID == "" {
		t.Fatal("expected an id")
	}

	second, err := s.Create(ctx, notes.Input{Title: "Ben Reyes", Content: "Diploma"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Content != "Transcript" {
		t.Errorf("expected content round trip, got %q", got.Content)
	}
	if len(got.Images) != 0 {
		t.Errorf("expected no images, got %v", got.Images)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(list))
	}
	if list[0].ID != second.ID {
		t.Errorf("expected most recently updated first, got %q", list[0].Title)
	}
}

func TestCreate_RequiresTitle(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Create(context.Background(), notes.Input{Title: "   "})
	if !errors.Is(err, notes.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
}

func TestUpdateDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	n, _ := s.Create(ctx, notes.Input{Title: "Ana", Content: "old"})

	updated, err := s.Update(ctx, n.ID, notes.Input{Title: "Ana", Content: "new"})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Content != "new" {
		t.Errorf("expected new content, got %q", updated.Content)
	}
	if !updated.UpdatedAt.After(n.UpdatedAt) {
		t.Errorf("expected updated_at to advance: %v -> %v", n.UpdatedAt, updated.UpdatedAt)
	}

	if err := s.Delete(ctx, n.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := s.Get(ctx, n.ID); !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, n.ID); !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := s.Update(ctx, "missing", notes.Input{Title: "x"}); !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
}

func TestImages(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	n, _ := s.Create(ctx, notes.Input{Title: "Ana"})

	if _, err := s.AddImage(ctx, n.ID, "/tmp/id-front.png"); err != nil {
		t.Fatalf("add image error: %v", err)
	}
	if _, err := s.AddImage(ctx, n.ID, "/tmp/id-back.png"); err != nil {
		t.Fatalf("add image error: %v", err)
	}
	got, err := s.AddImage(ctx, n.ID, "/tmp/id-front.png")
	if err != nil {
		t.Fatalf("re-add image error: %v", err)
	}
	if len(got.Images) != 2 || got.Images[0] != "/tmp/id-front.png" {
		t.Fatalf("expected 2 images in insertion order, got %v", got.Images)
	}

	got, err = s.RemoveImage(ctx, n.ID, "/tmp/id-front.png")
	if err != nil {
		t.Fatalf("remove image error: %v", err)
	}
	if len(got.Images) != 1 || got.Images[0] != "/tmp/id-back.png" {
		t.Errorf("expected only back image, got %v", got.Images)
	}

	list, _ := s.List(ctx)
	if len(list) != 1 || len(list[0].Images) != 1 {
		t.Errorf("expected list to carry images, got %+v", list)
	}

	// Deleting the note drops its images too.
	if err := s.Delete(ctx, n.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	images, err := s.allImages(ctx)
	if err != nil {
		t.Fatalf("images error: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("expected images cascaded away, got %v", images)
	}

	if _, err := s.AddImage(ctx, "missing", "x"); !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sinta.db")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	n, _ := s.Create(ctx, notes.Input{Title: "Ana", Content: "body"})
	s.Close()

	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Content != "body" {
		t.Errorf("expected body, got %q", got.Content)
	}
}

func TestNew_ReopenKeepsNotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sinta.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := s.Create(context.Background(), notes.Input{Title: "Maria Santos", Content: "Enrollment"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Close()

	// Migrations run again on an existing database.
	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(context.Background(), n.ID)
	if err != nil || got.Title != "Maria Santos" {
		t.Errorf("expected note to survive reopen, got %+v, %v", got, err)
	}
}
