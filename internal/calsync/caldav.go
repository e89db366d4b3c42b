package calsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-webdav/caldav"

	"sinta/internal/booking"
)

var ErrNotConfigured = errors.New("caldav: calendar not configured")

// Client publishes appointments to a CalDAV calendar collection.
type Client struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	now          func() time.Time

	// Publish and Unpublish run from concurrent commands.
	mu     sync.Mutex
	client *caldav.Client
}

// NewClient creates a client for the collection at calendarPath on baseURL.
func NewClient(baseURL, username, password, calendarPath string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		username:     username,
		password:     password,
		calendarPath: calendarPath,
		now:          time.Now,
	}
}

// IsConfigured returns true if there is a server and a calendar to write to
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.calendarPath != ""
}

func (c *Client) connect() (*caldav.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: c.username,
			password: c.password,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	c.client = client
	return client, nil
}

// basicAuthTransport adds Basic Auth to HTTP requests
type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.username != "" {
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.username, t.password)
	}
	return http.DefaultTransport.RoundTrip(req)
}

func (c *Client) objectPath(id string) string {
	path := c.calendarPath
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path + UID(id) + ".ics"
}

// Publish creates or replaces the event for a.
func (c *Client) Publish(ctx context.Context, a booking.Appointment) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	vevent, ok := ToEvent(a, c.now())
	if !ok {
		return fmt.Errorf("appointment %s has no date", a.ID)
	}

	client, err := c.connect()
	if err != nil {
		return err
	}

	cal := newCalendar()
	cal.Children = append(cal.Children, vevent.Component)

	if _, err := client.PutCalendarObject(ctx, c.objectPath(a.ID), cal); err != nil {
		return fmt.Errorf("put event: %w", err)
	}
	return nil
}

// Unpublish removes the event for id.
func (c *Client) Unpublish(ctx context.Context, id string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	client, err := c.connect()
	if err != nil {
		return err
	}
	if err := client.RemoveAll(ctx, c.objectPath(id)); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
