package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"sinta/internal/notes"
)

// fakeServer is a tiny in-memory notes API.
type fakeServer struct {
	mu    sync.Mutex
	notes map[string]*notes.Note
	seq   int
	auth  []string
}

func newFakeServer(t *testing.T) (*fakeServer, *Client) {
	t.Helper()
	fs := &fakeServer{notes: map[string]*notes.Note{}}
	srv := httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(srv.Close)
	return fs, NewClient(srv.URL+"/", "secret")
}

func (s *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth = append(s.auth, r.Header.Get("Authorization"))
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	writeJSON := func(status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	notFound := func() {
		writeJSON(http.StatusNotFound, map[string]string{"detail": "Note not found"})
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		list := []notes.Note{}
		for _, n := range s.notes {
			list = append(list, *n)
		}
		writeJSON(http.StatusOK, list)

	case len(parts) == 1 && r.Method == http.MethodPost:
		var in notes.Input
		json.NewDecoder(r.Body).Decode(&in)
		s.seq++
		now := time.Date(2025, time.March, 1, 0, s.seq, 0, 0, time.UTC)
		n := &notes.Note{ID: "n" + string(rune('0'+s.seq)), Title: in.Title, Content: in.Content, CreatedAt: now, UpdatedAt: now}
		s.notes[n.ID] = n
		writeJSON(http.StatusCreated, n)

	case len(parts) >= 2:
		n, ok := s.notes[parts[1]]
		if !ok {
			notFound()
			return
		}
		switch {
		case len(parts) == 2 && r.Method == http.MethodGet:
			writeJSON(http.StatusOK, n)
		case len(parts) == 2 && r.Method == http.MethodPut:
			var in notes.Input
			json.NewDecoder(r.Body).Decode(&in)
			n.Title, n.Content = in.Title, in.Content
			writeJSON(http.StatusOK, n)
		case len(parts) == 2 && r.Method == http.MethodDelete:
			delete(s.notes, n.ID)
			w.WriteHeader(http.StatusNoContent)
		case len(parts) == 3 && r.Method == http.MethodPost:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			n.Images = append(n.Images, body["image"])
			n.ImageURLs = append(n.ImageURLs, "https://cdn.example/"+body["image"])
			writeJSON(http.StatusOK, n)
		case len(parts) == 4 && r.Method == http.MethodDelete:
			var kept []string
			for _, img := range n.Images {
				if img != parts[3] {
					kept = append(kept, img)
				}
			}
			n.Images = kept
			writeJSON(http.StatusOK, n)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	default:
		http.Error(w, "boom", http.StatusInternalServerError)
	}
}

func TestClient_CRUD(t *testing.T) {
	srv, c := newFakeServer(t)
	ctx := context.Background()

	created, err := c.Create(ctx, notes.Input{Title: " Ana ", Content: "body"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if created.Title != "Ana" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
	if created.Images == nil {
		t.Error("expected images normalised to empty slice")
	}

	updated, err := c.Update(ctx, created.ID, notes.Input{Title: "Ana", Content: "new body"})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Content != "new body" {
		t.Errorf("expected new body, got %q", updated.Content)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 note, got %d", len(list))
	}

	withImage, err := c.AddImage(ctx, created.ID, "id.png")
	if err != nil {
		t.Fatalf("add image error: %v", err)
	}
	if withImage.ImageURL(0) != "https://cdn.example/id.png" {
		t.Errorf("expected server image url, got %q", withImage.ImageURL(0))
	}
	withoutImage, err := c.RemoveImage(ctx, created.ID, "id.png")
	if err != nil {
		t.Fatalf("remove image error: %v", err)
	}
	if len(withoutImage.Images) != 0 {
		t.Errorf("expected no images, got %v", withoutImage.Images)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	for _, h := range srv.auth {
		if h != "Bearer secret" {
			t.Errorf("expected bearer token on every request, got %q", h)
		}
	}
}

func TestClient_NotFound(t *testing.T) {
	_, c := newFakeServer(t)

	_, err := c.Get(context.Background(), "missing")
	if !errors.Is(err, notes.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Message != "Note not found" {
		t.Errorf("expected detail message, got %q", apiErr.Message)
	}
}

func TestClient_ServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "database unavailable") {
		t.Errorf("expected server message in error, got %q", err.Error())
	}
	if errors.Is(err, notes.ErrNotFound) {
		t.Error("503 must not read as not found")
	}
}

func TestClient_ValidatesBeforeSending(t *testing.T) {
	srv, c := newFakeServer(t)

	if _, err := c.Create(context.Background(), notes.Input{Title: ""}); !errors.Is(err, notes.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if len(srv.auth) != 0 {
		t.Errorf("expected no request, got %d", len(srv.auth))
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	_, c := newFakeServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"nope"}`, "nope"},
		{`{"error":"bad"}`, "bad"},
		{`{"message":"meh"}`, "meh"},
		{`plain text`, "plain text"},
		{``, "500 Internal Server Error"},
	}
	for _, tt := range tests {
		if got := errorMessage([]byte(tt.body), "500 Internal Server Error"); got != tt.want {
			t.Errorf("errorMessage(%q): expected %q, got %q", tt.body, tt.want, got)
		}
	}
}
