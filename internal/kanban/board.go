// Package kanban keeps a project's tasks partitioned by status while board
// moves reconcile against the server. Moves apply optimistically: the task
// jumps to its target column right away, and the controller puts it back
// where it was if the server rejects the update.
package kanban

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/planhub/planhub-cli/internal/api"
)

// ErrTaskNotFound is returned when a move names a task that is not on the
// board (stale UI state, or the board was reloaded underneath it).
var ErrTaskNotFound = errors.New("task not on board")

// TaskService is the slice of the API the board needs.
type TaskService interface {
	MyTasks(ctx context.Context, projectID int64) ([]api.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID, projectID int64, status api.Status) error
}

// Board holds one project's tasks. Each task is in exactly one status
// column; columns are projections of the single task slice, in
// last-loaded order.
type Board struct {
	svc TaskService

	mu        sync.Mutex
	projectID int64
	tasks     []api.Task
}

// NewBoard creates an empty board over the given service.
func NewBoard(svc TaskService) *Board {
	return &Board{svc: svc}
}

// Load fetches the project's full task list, replacing all board state.
func (b *Board) Load(ctx context.Context, projectID int64) error {
	tasks, err := b.svc.MyTasks(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	b.mu.Lock()
	b.projectID = projectID
	b.tasks = tasks
	b.mu.Unlock()

	slog.Debug("board loaded", "project_id", projectID, "tasks", len(tasks))
	return nil
}

// Move reassigns a task to the target column. A move to the task's current
// column is a no-op and issues no network call. Otherwise the task moves
// locally first, then the server is told; if the server rejects the update
// the task is moved back and the error returned.
//
// Moves of independent tasks may race against the network; the last
// response wins. The revert only fires if the task still sits where this
// move put it.
func (b *Board) Move(ctx context.Context, taskID int64, target api.Status) error {
	b.mu.Lock()
	idx := b.indexOf(taskID)
	if idx < 0 {
		b.mu.Unlock()
		return ErrTaskNotFound
	}
	prev := b.tasks[idx].Status
	if prev == target {
		b.mu.Unlock()
		return nil
	}
	b.tasks[idx].Status = target
	projectID := b.projectID
	b.mu.Unlock()

	if err := b.svc.UpdateTaskStatus(ctx, taskID, projectID, target); err != nil {
		b.mu.Lock()
		if i := b.indexOf(taskID); i >= 0 && b.tasks[i].Status == target {
			b.tasks[i].Status = prev
		}
		b.mu.Unlock()
		slog.Debug("move rejected", "task_id", taskID, "target", target, "error", err)
		return fmt.Errorf("failed to move task: %w", err)
	}

	slog.Debug("task moved", "task_id", taskID, "from", prev, "to", target)
	return nil
}

// Column returns the tasks currently in the given status, in last-loaded
// order. The returned slice is the caller's to keep.
func (b *Board) Column(status api.Status) []api.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []api.Task
	for _, t := range b.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Tasks returns a copy of the full task list.
func (b *Board) Tasks() []api.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]api.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// ProjectID returns the currently loaded project, 0 when nothing is loaded.
func (b *Board) ProjectID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.projectID
}

// indexOf is called with b.mu held.
func (b *Board) indexOf(taskID int64) int {
	for i := range b.tasks {
		if b.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
