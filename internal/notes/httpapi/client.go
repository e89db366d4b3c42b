// Package httpapi talks to a remote notes service over JSON/HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sinta/internal/notes"
)

// APIError is a non-2xx answer from the notes service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return notes.ErrNotFound
	}
	return nil
}

// Client is a notes.Backend backed by the remote API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for baseURL (e.g. "https://api.example.com/v1").
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured returns true if the client has somewhere to talk to
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// doRequest performs an HTTP request and decodes a JSON answer into out
func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(respBody, resp.Status)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error body.
func errorMessage(body []byte, status string) string {
	var payload struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, msg := range []string{payload.Detail, payload.Error, payload.Message} {
			if msg != "" {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}

func notePath(id string) string {
	return "/notes/" + url.PathEscape(id)
}

func (c *Client) List(ctx context.Context) ([]notes.Note, error) {
	var result []notes.Note
	if err := c.doRequest(ctx, http.MethodGet, "/notes", nil, &result); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	for i := range result {
		normalize(&result[i])
	}
	return result, nil
}

func (c *Client) Get(ctx context.Context, id string) (*notes.Note, error) {
	return c.noteCall(ctx, http.MethodGet, notePath(id), nil, "get note")
}

func (c *Client) Create(ctx context.Context, in notes.Input) (*notes.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return c.noteCall(ctx, http.MethodPost, "/notes", in, "create note")
}

func (c *Client) Update(ctx context.Context, id string, in notes.Input) (*notes.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return c.noteCall(ctx, http.MethodPut, notePath(id), in, "update note")
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, notePath(id), nil, nil); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (c *Client) AddImage(ctx context.Context, id, ref string) (*notes.Note, error) {
	body := map[string]string{"image": ref}
	return c.noteCall(ctx, http.MethodPost, notePath(id)+"/images", body, "add image")
}

func (c *Client) RemoveImage(ctx context.Context, id, ref string) (*notes.Note, error) {
	return c.noteCall(ctx, http.MethodDelete, notePath(id)+"/images/"+url.PathEscape(ref), nil, "remove image")
}

func (c *Client) noteCall(ctx context.Context, method, path string, body interface{}, what string) (*notes.Note, error) {
	var n notes.Note
	if err := c.doRequest(ctx, method, path, body, &n); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	if n.ID == "" {
		return nil, fmt.Errorf("%s: %w", what, errors.New("response carried no note"))
	}
	normalize(&n)
	return &n, nil
}

func normalize(n *notes.Note) {
	if n.Images == nil {
		n.Images = []string{}
	}
}
