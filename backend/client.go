package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client is the raw HTTP client for the task-management backend.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a backend client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
	}, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// GetTask fetches a task by ID.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	var task Task
	if err := c.doJSON(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var task Task
	if err := c.doJSON(ctx, http.MethodPost, "/tasks", nil, input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to a task. Nil fields in input
// are left unchanged on the backend.
func (c *Client) UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (*Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var task Task
	if err := c.doJSON(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(taskID), nil, input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task by ID.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(taskID), nil, nil, nil)
}

// ListTasks returns tasks matching the filter. Zero-value filter
// fields are omitted from the query.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	query := map[string]string{}
	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}
	if filter.SprintID != "" {
		query["sprint_id"] = filter.SprintID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Assignee != "" {
		query["assignee"] = filter.Assignee
	}
	if filter.Label != "" {
		query["label"] = filter.Label
	}

	var tasks []Task
	if err := c.doJSON(ctx, http.MethodGet, "/tasks", query, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetProject fetches a project by ID.
func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	var project Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID), nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetSprint fetches a sprint by ID.
func (c *Client) GetSprint(ctx context.Context, sprintID string) (*Sprint, error) {
	var sprint Sprint
	if err := c.doJSON(ctx, http.MethodGet, "/sprints/"+url.PathEscape(sprintID), nil, nil, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// ListSprints returns the sprints of a project.
func (c *Client) ListSprints(ctx context.Context, projectID string) ([]Sprint, error) {
	var sprints []Sprint
	query := map[string]string{"project_id": projectID}
	if err := c.doJSON(ctx, http.MethodGet, "/sprints", query, nil, &sprints); err != nil {
		return nil, err
	}
	return sprints, nil
}

// ListActionItems returns the action items of a project.
func (c *Client) ListActionItems(ctx context.Context, projectID string) ([]ActionItem, error) {
	var items []ActionItem
	query := map[string]string{"project_id": projectID}
	if err := c.doJSON(ctx, http.MethodGet, "/action-items", query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Health fetches the backend's health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// doJSON builds, sends and decodes a JSON request. out may be nil for
// operations without a response body.
func (c *Client) doJSON(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	httpReq, err := c.buildRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return newTimeoutError(err)
		}
		return newConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newConnectionError(fmt.Errorf("read response body: %w", err))
	}

	if classErr := classifyStatusCode(resp.StatusCode, respBody); classErr != nil {
		return classErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("backend: decode response: %w", err)
		}
	}
	return nil
}

// buildRequest constructs an *http.Request from the client config.
func (c *Client) buildRequest(ctx context.Context, method, path string, query map[string]string, body any) (*http.Request, error) {
	fullURL := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("backend: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("backend: create request: %w", err)
	}

	if len(query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.config.Auth.apply(httpReq)

	return httpReq, nil
}
