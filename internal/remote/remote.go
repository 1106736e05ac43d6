// Package remote reads the initial task collection from the task service.
//
// Only the read endpoint is used; the client never writes back.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todo-cli/internal/model"
)

const TasksPath = "/api/tasks"

// maxBodyBytes caps the response we are willing to decode.
const maxBodyBytes = 8 << 20

// ErrLoad wraps every failure of a task load.
var ErrLoad = errors.New("load tasks")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Source fetches the task collection.
type Source interface {
	Fetch(ctx context.Context) ([]model.Task, error)
}

// HTTPSource fetches tasks with GET <BaseURL>/api/tasks.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSource(baseURL string) (*HTTPSource, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	return &HTTPSource{BaseURL: baseURL, Client: &http.Client{}}, nil
}

func (s *HTTPSource) TasksURL() string {
	return strings.TrimRight(s.BaseURL, "/") + TasksPath
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]model.Task, error) {
	u := s.TasksURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%w: %w", ErrLoad, StatusError{Code: resp.StatusCode, URL: u})
	}

	tasks, err := DecodeTasks(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return tasks, nil
}

// DecodeTasks parses a JSON array of tasks. A null or non-array document, or anything after
// the array, is rejected.
func DecodeTasks(r io.Reader) ([]model.Task, error) {
	dec := json.NewDecoder(r)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, errors.New("decode tasks: expected a JSON array")
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode tasks: unexpected data after array")
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// FetchWithTimeout runs one bounded load. There is no retry.
func FetchWithTimeout(ctx context.Context, src Source, timeout time.Duration) ([]model.Task, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	tasks, err := src.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, ErrLoad) {
			err = fmt.Errorf("%w: %w", ErrLoad, err)
		}
		return nil, err
	}
	return tasks, nil
}
