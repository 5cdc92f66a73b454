package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TasksPort defines the interface other modules use to reach the task store.
type TasksPort interface {
	Create(ctx context.Context, userID, title, description string) (*TaskResponse, error)
	Get(ctx context.Context, id string) (*TaskResponse, error)
	List(ctx context.Context, userID, status, sort string) ([]TaskResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error)
	ToggleComplete(ctx context.Context, id string) (*TaskResponse, error)
	Delete(ctx context.Context, id string) error
}

// TasksAdapter implements TasksPort using the service container.
type TasksAdapter struct {
	container mono.ServiceContainer
}

// NewTasksAdapter creates a new TasksAdapter.
func NewTasksAdapter(container mono.ServiceContainer) *TasksAdapter {
	return &TasksAdapter{
		container: container,
	}
}

func call[T1 any, T2 any](a *TasksAdapter, ctx context.Context, service string, req T1, resp *T2) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Create creates a task owned by userID.
func (a *TasksAdapter) Create(ctx context.Context, userID, title, description string) (*TaskResponse, error) {
	req := CreateTaskRequest{UserID: userID, Title: title, Description: description}
	var resp TaskResponse
	if err := call(a, ctx, "create", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get fetches a task by id.
func (a *TasksAdapter) Get(ctx context.Context, id string) (*TaskResponse, error) {
	req := GetTaskRequest{ID: id}
	var resp TaskResponse
	if err := call(a, ctx, "get", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List fetches an owner's tasks with optional status filter and sort key.
func (a *TasksAdapter) List(ctx context.Context, userID, status, sort string) ([]TaskResponse, error) {
	req := ListTasksRequest{UserID: userID, Status: status, Sort: sort}
	var resp ListTasksResponse
	if err := call(a, ctx, "list", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// Update applies a partial update.
func (a *TasksAdapter) Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, "update", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleComplete flips a task's completion flag.
func (a *TasksAdapter) ToggleComplete(ctx context.Context, id string) (*TaskResponse, error) {
	req := ToggleTaskRequest{ID: id}
	var resp TaskResponse
	if err := call(a, ctx, "toggle", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a task by id.
func (a *TasksAdapter) Delete(ctx context.Context, id string) error {
	req := DeleteTaskRequest{ID: id}
	var resp DeleteTaskResponse
	return call(a, ctx, "delete", &req, &resp)
}
