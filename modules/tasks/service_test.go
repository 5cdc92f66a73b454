package tasks

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestService(t *testing.T) *TaskService {
	t.Helper()
	return NewTaskService(NewRepository(setupTestDB(t)))
}

func TestTaskService_Create_TitleBoundaries(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		title   string
		wantErr error
	}{
		{
			name:    "empty title",
			title:   "",
			wantErr: ErrTitleRequired,
		},
		{
			name:    "title at limit",
			title:   strings.Repeat("a", task.MaxTitleLen),
			wantErr: nil,
		},
		{
			name:    "title over limit",
			title:   strings.Repeat("a", task.MaxTitleLen+1),
			wantErr: ErrTitleTooLong,
		},
		{
			// 200 characters but 400 bytes; the limit counts characters.
			name:    "multibyte title at limit",
			title:   strings.Repeat("é", task.MaxTitleLen),
			wantErr: nil,
		},
		{
			name:    "multibyte title over limit",
			title:   strings.Repeat("é", task.MaxTitleLen+1),
			wantErr: ErrTitleTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, "alice-1", tt.title, "")
			if err != tt.wantErr {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskService_Create_DescriptionBoundaries(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, err := service.Create(ctx, "alice-1", "ok", strings.Repeat("d", task.MaxDescriptionLen)); err != nil {
		t.Errorf("Create() with description at limit error = %v", err)
	}

	_, err := service.Create(ctx, "alice-1", "ok", strings.Repeat("d", task.MaxDescriptionLen+1))
	if err != ErrDescriptionTooLong {
		t.Errorf("Create() error = %v, want ErrDescriptionTooLong", err)
	}

	if _, err := service.Create(ctx, "alice-1", "ok", strings.Repeat("é", task.MaxDescriptionLen)); err != nil {
		t.Errorf("Create() with multibyte description at limit error = %v", err)
	}
}

func TestTaskService_Create_AssignsIDAndTimestamps(t *testing.T) {
	service := newTestService(t)

	created, err := service.Create(context.Background(), "alice-1", "new task", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if created.Completed {
		t.Error("new task must start uncompleted")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
	if created.UpdatedAt.Before(created.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", created.UpdatedAt, created.CreatedAt)
	}
}

func TestTaskService_Update_PartialRetainsFields(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, "alice-1", "X", "Y")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newTitle := "Z"
	updated, err := service.Update(ctx, created.ID, task.Patch{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Title != "Z" || updated.Description != "Y" {
		t.Errorf("got {title:%q, description:%q}, want {title:%q, description:%q}",
			updated.Title, updated.Description, "Z", "Y")
	}
}

func TestTaskService_Update_ValidatesPresentFields(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, "alice-1", "fine", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	empty := ""
	if _, err := service.Update(ctx, created.ID, task.Patch{Title: &empty}); err != ErrTitleRequired {
		t.Errorf("Update() error = %v, want ErrTitleRequired", err)
	}

	long := strings.Repeat("a", task.MaxTitleLen+1)
	if _, err := service.Update(ctx, created.ID, task.Patch{Title: &long}); err != ErrTitleTooLong {
		t.Errorf("Update() error = %v, want ErrTitleTooLong", err)
	}

	longDesc := strings.Repeat("d", task.MaxDescriptionLen+1)
	if _, err := service.Update(ctx, created.ID, task.Patch{Description: &longDesc}); err != ErrDescriptionTooLong {
		t.Errorf("Update() error = %v, want ErrDescriptionTooLong", err)
	}

	// Failed updates must not have modified the record.
	got, err := service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "fine" {
		t.Errorf("Title = %q after rejected updates, want %q", got.Title, "fine")
	}
}

func TestTaskService_ToggleComplete(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, "alice-1", "toggle", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	toggled, err := service.ToggleComplete(ctx, created.ID)
	if err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if !toggled.Completed {
		t.Error("ToggleComplete() should set completed = true")
	}
	if !toggled.UpdatedAt.After(created.CreatedAt) {
		t.Errorf("UpdatedAt %v not after CreatedAt %v", toggled.UpdatedAt, created.CreatedAt)
	}

	back, err := service.ToggleComplete(ctx, created.ID)
	if err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if back.Completed {
		t.Error("second ToggleComplete() should set completed = false")
	}
}

func TestTaskService_Delete(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, "alice-1", "delete", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := service.Delete(ctx, created.ID); err != ErrTaskNotFound {
		t.Errorf("second Delete() error = %v, want ErrTaskNotFound", err)
	}
}

// Requires Redis on localhost:6379; skips when it is absent.
func TestTaskService_List_CacheAside(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	prefix := "test:tasks:" + uuid.New().String() + ":"
	c := cache.New(client, prefix, time.Minute)
	defer c.DeletePattern(ctx, "*")

	service := newTestService(t)
	service.SetCache(c)

	if _, err := service.Create(ctx, "alice-1", "cached", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// First read misses and fills the cache, second read hits it.
	first, err := service.List(ctx, "alice-1", "", "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	second, err := service.List(ctx, "alice-1", "", "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(first) != 1 || len(second) != 1 || second[0].Title != "cached" {
		t.Errorf("first = %v, second = %v, want one task each", first, second)
	}

	stats := c.GetStats()
	if stats.Misses == 0 {
		t.Error("first List() should have missed the cache")
	}
	if stats.Hits == 0 {
		t.Error("second List() should have hit the cache")
	}
}

func TestTaskService_List_StatusPartition(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	a, err := service.Create(ctx, "alice-1", "first", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := service.Create(ctx, "alice-1", "second", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := service.ToggleComplete(ctx, a.ID); err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}

	active, err := service.List(ctx, "alice-1", StatusActive, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	completed, err := service.List(ctx, "alice-1", StatusCompleted, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(active) != 1 || active[0].Title != "second" {
		t.Errorf("active = %v, want exactly [second]", active)
	}
	if len(completed) != 1 || completed[0].Title != "first" {
		t.Errorf("completed = %v, want exactly [first]", completed)
	}
}
