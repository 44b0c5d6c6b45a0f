// Package api is an HTTP client for the school REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

const (
	// DefaultBaseURL matches a local development server.
	DefaultBaseURL = "http://localhost:8000/api"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	lookupLimit = "100"
	maxBodySize = 8 << 20
)

// Error is a non-2xx response from the API.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api: %d %s", e.Status, msg)
	}
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return fmt.Sprintf("api: %d %s (%s)", e.Status, msg, strings.Join(parts, "; "))
}

// Unwrap maps well-known statuses to domain errors.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return schedule.ErrNotFound
	case http.StatusConflict:
		return schedule.ErrConflict
	default:
		return nil
	}
}

// Client talks to the API. It implements schedule.Backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ schedule.Backend = (*Client)(nil)

// ListEntries implements schedule.Backend.
func (c *Client) ListEntries(ctx context.Context, f schedule.Filter) ([]schedule.Entry, error) {
	q := url.Values{}
	if f.TeacherID != "" {
		q.Set("teacher_id", f.TeacherID)
	}
	if f.Date != nil {
		q.Set("date", f.Date.Format(time.DateOnly))
	}
	var wire []entryJSON
	if err := c.getList(ctx, "/staff/schedule/", q, &wire); err != nil {
		return nil, fmt.Errorf("listing schedule: %w", err)
	}
	entries := make([]schedule.Entry, len(wire))
	for i, w := range wire {
		entries[i] = w.entry()
	}
	return entries, nil
}

// CreateEntry implements schedule.Backend.
func (c *Client) CreateEntry(ctx context.Context, form schedule.FormData) (schedule.Entry, error) {
	var w entryJSON
	if err := c.do(ctx, http.MethodPost, "/staff/schedule/", nil, form, &w); err != nil {
		return schedule.Entry{}, fmt.Errorf("creating schedule entry: %w", err)
	}
	return w.entry(), nil
}

// UpdateEntry implements schedule.Backend.
func (c *Client) UpdateEntry(ctx context.Context, id string, form schedule.FormData) (schedule.Entry, error) {
	var w entryJSON
	if err := c.do(ctx, http.MethodPut, "/staff/schedule/"+url.PathEscape(id)+"/", nil, form, &w); err != nil {
		return schedule.Entry{}, fmt.Errorf("updating schedule entry %s: %w", id, err)
	}
	return w.entry(), nil
}

// DeleteEntry implements schedule.Backend.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/staff/schedule/"+url.PathEscape(id)+"/", nil, nil, nil); err != nil {
		return fmt.Errorf("deleting schedule entry %s: %w", id, err)
	}
	return nil
}

// ListTeachers implements schedule.Backend.
func (c *Client) ListTeachers(ctx context.Context) ([]schedule.Ref, error) {
	q := url.Values{"role": {"teacher"}, "limit": {lookupLimit}}
	var wire []refJSON
	if err := c.getList(ctx, "/staff/", q, &wire); err != nil {
		return nil, fmt.Errorf("listing teachers: %w", err)
	}
	out := make([]schedule.Ref, len(wire))
	for i, w := range wire {
		out[i] = w.ref()
	}
	return out, nil
}

// ListCourses implements schedule.Backend.
func (c *Client) ListCourses(ctx context.Context) ([]schedule.Course, error) {
	q := url.Values{"status": {"active"}, "limit": {lookupLimit}}
	var wire []courseJSON
	if err := c.getList(ctx, "/curriculum/courses/", q, &wire); err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	out := make([]schedule.Course, len(wire))
	for i, w := range wire {
		out[i] = w.course()
	}
	return out, nil
}

// ListRooms implements schedule.Backend.
func (c *Client) ListRooms(ctx context.Context) ([]schedule.Room, error) {
	var wire []roomJSON
	if err := c.getList(ctx, "/facilities/rooms/", nil, &wire); err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	out := make([]schedule.Room, len(wire))
	for i, w := range wire {
		out[i] = w.room()
	}
	return out, nil
}

// getList fetches a collection that is either a bare array or wrapped in
// {"results": [...]}.
func (c *Client) getList(ctx context.Context, path string, q url.Values, out any) error {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, q, nil, &raw); err != nil {
		return err
	}
	return decodeList(raw, out)
}

func decodeList(raw json.RawMessage, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("decoding list: %w", err)
		}
		return nil
	}
	var env struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return fmt.Errorf("decoding envelope: %w", err)
	}
	if len(env.Results) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Results, out); err != nil {
		return fmt.Errorf("decoding results: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// parseError understands {"error": "..."}, {"detail": "..."} and
// {"field": ["msg", ...]} bodies.
func parseError(status int, data []byte) error {
	apiErr := &Error{Status: status}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	for key, raw := range body {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if key == "error" || key == "detail" || key == "message" {
				apiErr.Message = s
				continue
			}
			apiErr.addField(key, s)
			continue
		}
		var list []string
		if json.Unmarshal(raw, &list) == nil {
			apiErr.addField(key, strings.Join(list, ", "))
			continue
		}
		var nested map[string]string
		if json.Unmarshal(raw, &nested) == nil {
			for k, v := range nested {
				apiErr.addField(k, v)
			}
		}
	}
	return apiErr
}

func (e *Error) addField(k, v string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[k] = v
}
