package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TasksModule provides the task store services.
type TasksModule struct {
	db      *gorm.DB
	service *TaskService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*TasksModule)(nil)
var _ mono.ServiceProviderModule = (*TasksModule)(nil)
var _ mono.HealthCheckableModule = (*TasksModule)(nil)

// NewModule creates a new TasksModule.
func NewModule() *TasksModule {
	dbPath := os.Getenv("TASKS_DB_PATH")
	if dbPath == "" {
		dbPath = "tasks.db"
	}
	return &TasksModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TasksModule) Name() string {
	return "tasks"
}

// Start initializes the tasks module.
func (m *TasksModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewTaskService(repo)

	log.Printf("[tasks] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TasksModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[tasks] Module stopped")
	return nil
}

// SetCache attaches the cache to the task service. Wired by main after all
// modules have started; until then reads go straight to the database.
func (m *TasksModule) SetCache(c *cache.Cache) {
	if m.service != nil && c != nil {
		m.service.SetCache(c)
		log.Println("[tasks] Cache attached")
	}
}

// Health returns the health status of the module.
func (m *TasksModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TasksModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "create", json.Unmarshal, json.Marshal, m.handleCreate)
		},
		"get": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get", json.Unmarshal, json.Marshal, m.handleGet)
		},
		"list": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "list", json.Unmarshal, json.Marshal, m.handleList)
		},
		"update": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update", json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		"toggle": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "toggle", json.Unmarshal, json.Marshal, m.handleToggle)
		},
		"delete": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "delete", json.Unmarshal, json.Marshal, m.handleDelete)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[tasks] Registered services: create, get, list, update, toggle, delete")
	return nil
}

// handleCreate handles task creation.
func (m *TasksModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, req.UserID, req.Title, req.Description)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleGet handles single-task fetches.
func (m *TasksModule) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(ctx, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleList handles owner-scoped listings.
func (m *TasksModule) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	list, err := m.service.List(ctx, req.UserID, req.Status, req.Sort)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{Tasks: make([]TaskResponse, 0, len(list))}
	for i := range list {
		resp.Tasks = append(resp.Tasks, NewTaskResponse(&list[i]))
	}
	return resp, nil
}

// handleUpdate handles partial updates.
func (m *TasksModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	patch := task.Patch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	t, err := m.service.Update(ctx, req.ID, patch)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleToggle handles toggle-complete requests.
func (m *TasksModule) handleToggle(ctx context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.ToggleComplete(ctx, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return NewTaskResponse(t), nil
}

// handleDelete handles delete requests.
func (m *TasksModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.ID); err != nil {
		return DeleteTaskResponse{}, err
	}
	return DeleteTaskResponse{Deleted: true}, nil
}
