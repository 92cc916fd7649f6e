package backend

import (
	"time"

	"github.com/sprintdeck/taskkit/validation"
)

// Task is a single unit of work tracked by the backend.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	SprintID    string     `json:"sprint_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateTaskInput is the payload for creating a task.
type CreateTaskInput struct {
	ProjectID   string     `json:"project_id"`
	SprintID    string     `json:"sprint_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate checks the input before it is sent to the backend.
func (in CreateTaskInput) Validate() error {
	return validation.New().
		Required("project_id", in.ProjectID).
		Required("title", in.Title).
		MaxLength("title", in.Title, 200).
		OneOf("priority", in.Priority, taskPriorities).
		Err()
}

// UpdateTaskInput is a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Assignee    *string    `json:"assignee,omitempty"`
	SprintID    *string    `json:"sprint_id,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate checks the patch before it is sent to the backend.
func (in UpdateTaskInput) Validate() error {
	v := validation.New()
	if in.Title != nil {
		v.Required("title", *in.Title).MaxLength("title", *in.Title, 200)
	}
	if in.Status != nil {
		v.OneOf("status", *in.Status, taskStatuses)
	}
	if in.Priority != nil {
		v.OneOf("priority", *in.Priority, taskPriorities)
	}
	return v.Err()
}

var (
	taskStatuses   = []string{"open", "in_progress", "blocked", "done"}
	taskPriorities = []string{"low", "medium", "high"}
)

// TaskFilter narrows ListTasks results. Zero values are ignored.
type TaskFilter struct {
	ProjectID string `json:"project_id,omitempty"`
	SprintID  string `json:"sprint_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Assignee  string `json:"assignee,omitempty"`
	Label     string `json:"label,omitempty"`
}

// Project groups tasks and sprints.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sprint is a timeboxed iteration within a project.
type Sprint struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Goal      string    `json:"goal,omitempty"`
	Status    string    `json:"status"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

// ActionItem is an entry on a project's action list.
type ActionItem struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Text      string     `json:"text"`
	Owner     string     `json:"owner,omitempty"`
	Done      bool       `json:"done"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// HealthStatus reports a component's availability.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// ComponentHealth describes the health of one backend component.
type ComponentHealth struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Health is the backend's health report.
type Health struct {
	Service    string            `json:"service"`
	Status     HealthStatus      `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components []ComponentHealth `json:"components,omitempty"`
}
