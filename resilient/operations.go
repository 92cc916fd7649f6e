package resilient

import (
	"context"

	"github.com/sprintdeck/taskkit/backend"
	"github.com/sprintdeck/taskkit/fallback"
)

// GetTask fetches a task by ID.
func (c *Client) GetTask(ctx context.Context, taskID string) (*backend.Task, error) {
	return call(ctx, c, "getTask", 1, fallback.Key(taskID), func(ctx context.Context) (*backend.Task, error) {
		return c.backend.GetTask(ctx, taskID)
	})
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, input backend.CreateTaskInput) (*backend.Task, error) {
	return call(ctx, c, "createTask", 1, fallback.Key(input), func(ctx context.Context) (*backend.Task, error) {
		return c.backend.CreateTask(ctx, input)
	})
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, input backend.UpdateTaskInput) (*backend.Task, error) {
	return call(ctx, c, "updateTask", 2, fallback.Key(taskID, input), func(ctx context.Context) (*backend.Task, error) {
		return c.backend.UpdateTask(ctx, taskID, input)
	})
}

// DeleteTask deletes a task by ID.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	_, err := call(ctx, c, "deleteTask", 1, fallback.Key(taskID), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.backend.DeleteTask(ctx, taskID)
	})
	return err
}

// ListTasks returns tasks matching the filter.
func (c *Client) ListTasks(ctx context.Context, filter backend.TaskFilter) ([]backend.Task, error) {
	return call(ctx, c, "listTasks", 1, fallback.Key(filter), func(ctx context.Context) ([]backend.Task, error) {
		return c.backend.ListTasks(ctx, filter)
	})
}

// GetProject fetches a project by ID.
func (c *Client) GetProject(ctx context.Context, projectID string) (*backend.Project, error) {
	return call(ctx, c, "getProject", 1, fallback.Key(projectID), func(ctx context.Context) (*backend.Project, error) {
		return c.backend.GetProject(ctx, projectID)
	})
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]backend.Project, error) {
	return call(ctx, c, "listProjects", 0, fallback.Key(), func(ctx context.Context) ([]backend.Project, error) {
		return c.backend.ListProjects(ctx)
	})
}

// GetSprint fetches a sprint by ID.
func (c *Client) GetSprint(ctx context.Context, sprintID string) (*backend.Sprint, error) {
	return call(ctx, c, "getSprint", 1, fallback.Key(sprintID), func(ctx context.Context) (*backend.Sprint, error) {
		return c.backend.GetSprint(ctx, sprintID)
	})
}

// ListSprints returns the sprints of a project.
func (c *Client) ListSprints(ctx context.Context, projectID string) ([]backend.Sprint, error) {
	return call(ctx, c, "listSprints", 1, fallback.Key(projectID), func(ctx context.Context) ([]backend.Sprint, error) {
		return c.backend.ListSprints(ctx, projectID)
	})
}

// ListActionItems returns the action items of a project.
func (c *Client) ListActionItems(ctx context.Context, projectID string) ([]backend.ActionItem, error) {
	return call(ctx, c, "listActionItems", 1, fallback.Key(projectID), func(ctx context.Context) ([]backend.ActionItem, error) {
		return c.backend.ListActionItems(ctx, projectID)
	})
}

// Health fetches the backend's health report.
func (c *Client) Health(ctx context.Context) (*backend.Health, error) {
	return call(ctx, c, "health", 0, fallback.Key(), func(ctx context.Context) (*backend.Health, error) {
		return c.backend.Health(ctx)
	})
}
