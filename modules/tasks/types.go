package tasks

import (
	"time"

	"github.com/example/task-tracker/domain/task"
)

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GetTaskRequest represents a single-task fetch request.
type GetTaskRequest struct {
	ID string `json:"id"`
}

// ListTasksRequest represents a filtered, sorted listing request for one owner.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status,omitempty"`
	Sort   string `json:"sort,omitempty"`
}

// UpdateTaskRequest represents a partial update request. Absent fields keep
// their prior values.
type UpdateTaskRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// ToggleTaskRequest represents a toggle-complete request.
type ToggleTaskRequest struct {
	ID string `json:"id"`
}

// DeleteTaskRequest represents a delete request.
type DeleteTaskRequest struct {
	ID string `json:"id"`
}

// DeleteTaskResponse represents a delete response.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// TaskResponse is the external representation of a task.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      string    `json:"user_id"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTasksResponse represents a listing response.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// NewTaskResponse converts a task entity to its external representation.
func NewTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		UserID:      t.UserID,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
