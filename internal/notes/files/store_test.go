package files

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sinta/internal/notes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "appointments"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestStore_CreateReadBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	content := "Transcript of records\n\n---\nnot frontmatter\n\n\U0001F4C5 Appointment Date: March 14, 2025"
	n, err := s.Create(ctx, notes.Input{Title: "Ana Cruz", Content: content})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	got, err := s.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Content != content {
		t.Errorf("content did not round-trip:\nexpected %q\ngot      %q", content, got.Content)
	}
	if got.Title != "Ana Cruz" {
		t.Errorf("expected title 'Ana Cruz', got %q", got.Title)
	}
	if !got.CreatedAt.Equal(n.CreatedAt) {
		t.Errorf("created_at mismatch: %v vs %v", got.CreatedAt, n.CreatedAt)
	}
}

func TestStore_ListOrderAndSkipsJunk(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, notes.Input{Title: "A"})
	b, _ := s.Create(ctx, notes.Input{Title: "B"})

	os.WriteFile(filepath.Join(s.dir, "junk.md"), []byte("# no frontmatter\n"), 0644)
	os.WriteFile(filepath.Join(s.dir, "readme.txt"), []byte("ignored"), 0644)

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(list))
	}
	if list[0].ID != b.ID || list[1].ID != a.ID {
		t.Errorf("expected newest first, got %q then %q", list[0].Title, list[1].Title)
	}

	if _, err := s.Update(ctx, a.ID, notes.Input{Title: "A2", Content: "changed"}); err != nil {
		t.Fatalf("update error: %v", err)
	}
	list, _ = s.List(ctx)
	if list[0].ID != a.ID || list[0].Title != "A2" {
		t.Errorf("expected updated note first, got %q", list[0].Title)
	}
}

func TestStore_DeleteAndMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, _ := s.Create(ctx, notes.Input{Title: "A"})
	if err := s.Delete(ctx, n.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	if _, err := s.Get(ctx, n.ID); !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, n.ID); !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get(ctx, "../escape"); !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("expected path ids to be rejected, got %v", err)
	}
}

func TestStore_Images(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, _ := s.Create(ctx, notes.Input{Title: "A"})
	s.AddImage(ctx, n.ID, "front.png")
	s.AddImage(ctx, n.ID, "back.png")
	got, err := s.AddImage(ctx, n.ID, "front.png")
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if len(got.Images) != 2 {
		t.Fatalf("expected 2 images, got %v", got.Images)
	}

	got, err = s.RemoveImage(ctx, n.ID, "front.png")
	if err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if len(got.Images) != 1 || got.Images[0] != "back.png" {
		t.Errorf("expected [back.png], got %v", got.Images)
	}

	reread, _ := s.Get(ctx, n.ID)
	if len(reread.Images) != 1 {
		t.Errorf("expected images persisted, got %v", reread.Images)
	}
}

func TestStore_RequiresTitle(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Create(context.Background(), notes.Input{}); !errors.Is(err, notes.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
}
