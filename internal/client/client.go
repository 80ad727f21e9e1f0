package client

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

	"github.com/TerminallyLazy/kanban-zero/internal/task"
)

// Client talks to the kz-server REST API on behalf of the CLI.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Code)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type createTaskRequest struct {
	RawInput     string `json:"raw_input"`
	EnergyColumn string `json:"energy_column,omitempty"`
	CreatedVia   string `json:"created_via"`
}

// TaskPatch carries partial updates; nil fields are left untouched.
type TaskPatch struct {
	Title        *string `json:"title,omitempty"`
	Body         *string `json:"body,omitempty"`
	EnergyColumn *string `json:"energy_column,omitempty"`
	Position     *int    `json:"position,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, rawInput, energy string) (*task.Task, error) {
	var t task.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", createTaskRequest{
		RawInput:     rawInput,
		EnergyColumn: energy,
		CreatedVia:   string(task.ViaCLI),
	}, &t)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &t, nil
}

func (c *Client) ListTasks(ctx context.Context, column string) ([]*task.Task, error) {
	path := "/api/tasks"
	if column != "" {
		path += "?column=" + url.QueryEscape(column)
	}
	var tasks []*task.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), patch, &t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &t, nil
}

func (c *Client) ShipTask(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/ship", nil, &t); err != nil {
		return nil, fmt.Errorf("failed to ship task: %w", err)
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ResolveTaskID accepts a full task ID or a unique prefix. Prefixes are
// matched against the active board plus the shipped column.
func (c *Client) ResolveTaskID(ctx context.Context, idOrPrefix string) (string, error) {
	if _, err := c.GetTask(ctx, idOrPrefix); err == nil {
		return idOrPrefix, nil
	} else if !IsNotFound(err) {
		return "", err
	}

	active, err := c.ListTasks(ctx, "")
	if err != nil {
		return "", err
	}
	shipped, err := c.ListTasks(ctx, string(task.ColumnShipped))
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range append(active, shipped...) {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", &APIError{StatusCode: http.StatusNotFound, Code: "not_found", Message: fmt.Sprintf("no task matching %q", idOrPrefix)}
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous task id %q matches %d tasks", idOrPrefix, len(matches))
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Message != "" {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
