package api

import (
	"context"
	"fmt"
	"net/http"
)

// Status is a task's board column.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists the board columns in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusCompleted}
}

// ParseStatus maps user input like "in_progress" to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(normalizeEnum(s)) {
	case StatusTodo:
		return StatusTodo, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown status %q (want todo, in_progress or completed)", s)
}

// Priority is a task's urgency level.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority maps user input like "high" to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(normalizeEnum(s)) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority %q (want low, medium or high)", s)
}

// Task is a board task as returned by the per-assignee task endpoints.
type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	DueDate     string   `json:"dueDate"`
}

// TaskSummary is a task row in management lists; AssignedTo is nil for
// unassigned tasks.
type TaskSummary struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	AssignedTo *string `json:"assignedTo"`
	Status     Status  `json:"status"`
	StartDate  string  `json:"startDate"`
	DueDate    string  `json:"dueDate"`
	Priority   Priority `json:"priority"`
}

// TaskHistoryItem is one entry of the recent-activity feed.
type TaskHistoryItem struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	ChangedAt string `json:"changedAt"`
}

// CreateTaskRequest is the body for creating a task in a project.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate"`
	DueDate     string   `json:"dueDate"`
	Priority    Priority `json:"priority"`
	AssigneeID  int64    `json:"assigneeId,omitempty"`
}

// MyTasks fetches the current user's tasks in a project (the kanban feed).
func (c *Client) MyTasks(ctx context.Context, projectID int64) ([]Task, error) {
	return get[[]Task](ctx, c, fmt.Sprintf("api/tasks/projects/%d/my-tasks", projectID))
}

// MemberTasks fetches one team member's tasks in a project.
func (c *Client) MemberTasks(ctx context.Context, projectID, userID int64) ([]Task, error) {
	return get[[]Task](ctx, c, fmt.Sprintf("api/tasks/projects/%d/members/%d/view-tasks", projectID, userID))
}

// AllProjectTasks pages through every task of a project.
func (c *Client) AllProjectTasks(ctx context.Context, projectID int64, page, size int) (Page[TaskSummary], error) {
	return get[Page[TaskSummary]](ctx, c,
		fmt.Sprintf("api/tasks/projects/%d/all-tasks?page=%d&size=%d", projectID, page, size))
}

// UpcomingDueTasks fetches tasks nearing their due date (developer
// dashboard feed).
func (c *Client) UpcomingDueTasks(ctx context.Context) ([]TaskSummary, error) {
	return get[[]TaskSummary](ctx, c, "api/tasks/upcoming-due")
}

// TaskHistory fetches the recent task activity feed.
func (c *Client) TaskHistory(ctx context.Context) ([]TaskHistoryItem, error) {
	return get[[]TaskHistoryItem](ctx, c, "api/tasks/history")
}

// CreateTask creates a task inside a project.
func (c *Client) CreateTask(ctx context.Context, projectID int64, req CreateTaskRequest) (TaskSummary, error) {
	return do[TaskSummary](ctx, c, http.MethodPost, fmt.Sprintf("api/tasks/projects/%d", projectID), req)
}

// UpdateTaskStatus moves a task to a new board column.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, projectID int64, status Status) error {
	return doDiscard(ctx, c, http.MethodPatch,
		fmt.Sprintf("api/tasks/%d/projects/%d/status", taskID, projectID),
		map[string]Status{"status": status})
}

func normalizeEnum(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		case c == '-' || c == ' ':
			c = '_'
		}
		out[i] = c
	}
	return string(out)
}
