package tasks

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/cache"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// TaskService provides task operations with validation and optional
// cache-aside reads. When no cache is attached every read goes to the
// database.
type TaskService struct {
	repo    *Repository
	cache   *cache.Cache
	sfGroup singleflight.Group
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *Repository) *TaskService {
	return &TaskService{repo: repo}
}

// SetCache attaches a cache to the service.
func (s *TaskService) SetCache(c *cache.Cache) {
	s.cache = c
}

func cacheKeyByID(id string) string {
	return "id:" + id
}

func cacheKeyList(ownerID, status, sort string) string {
	return fmt.Sprintf("list:%s:%s:%s", ownerID, status, sort)
}

func ownerListPattern(ownerID string) string {
	return "list:" + ownerID + ":*"
}

// Create validates field lengths, assigns an id and timestamps, and stores
// the task. The owner identity is fixed at creation.
func (s *TaskService) Create(ctx context.Context, ownerID, title, description string) (*task.Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &task.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		UserID:      ownerID,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(t); err != nil {
		return nil, err
	}

	s.invalidateOwner(ctx, ownerID)
	return t, nil
}

// Get retrieves a task by id, consulting the cache first. Concurrent misses
// for the same id collapse into a single database read.
func (s *TaskService) Get(ctx context.Context, id string) (*task.Task, error) {
	if s.cache == nil {
		return s.repo.FindByID(id)
	}

	var cached task.Task
	found, err := s.cache.Get(ctx, cacheKeyByID(id), &cached)
	if err != nil {
		log.Printf("[tasks] Cache error for id=%s: %v", id, err)
	}
	if found {
		return &cached, nil
	}

	val, err, _ := s.sfGroup.Do(cacheKeyByID(id), func() (any, error) {
		return s.repo.FindByID(id)
	})
	if err != nil {
		return nil, err
	}
	t := val.(*task.Task)

	if err := s.cache.Set(ctx, cacheKeyByID(id), t); err != nil {
		log.Printf("[tasks] Failed to cache task id=%s: %v", id, err)
	}
	return t, nil
}

// List retrieves an owner's tasks with optional status filter and sort key,
// consulting the cache first. Concurrent misses for the same owner and
// filters collapse into a single database read. Unrecognized filter or sort
// values must be rejected by the caller before this point; unknown values
// here behave as "no filter" / "no order".
func (s *TaskService) List(ctx context.Context, ownerID, status, sort string) ([]task.Task, error) {
	if s.cache == nil {
		return s.repo.FindByOwner(ownerID, status, sort)
	}

	key := cacheKeyList(ownerID, status, sort)
	cached := []task.Task{}
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("[tasks] Cache error for %s: %v", key, err)
	}
	if found {
		return cached, nil
	}

	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		return s.repo.FindByOwner(ownerID, status, sort)
	})
	if err != nil {
		return nil, err
	}
	list := val.([]task.Task)

	if err := s.cache.Set(ctx, key, list); err != nil {
		log.Printf("[tasks] Failed to cache %s: %v", key, err)
	}
	return list, nil
}

// Update applies a partial update. Only fields present in the patch change;
// a present title is re-validated against the same length rules as creation.
func (s *TaskService) Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		if err := validateDescription(*patch.Description); err != nil {
			return nil, err
		}
	}

	t, err := s.repo.Update(id, patch)
	if err != nil {
		return nil, err
	}

	s.invalidateTask(ctx, t)
	return t, nil
}

// ToggleComplete flips a task's completion flag.
func (s *TaskService) ToggleComplete(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.repo.Toggle(id)
	if err != nil {
		return nil, err
	}

	s.invalidateTask(ctx, t)
	return t, nil
}

// Delete removes a task by id.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	t, err := s.repo.Delete(id)
	if err != nil {
		return err
	}

	s.invalidateTask(ctx, t)
	return nil
}

// Length limits count characters, not bytes, so multibyte titles up to the
// limit are accepted.
func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > task.MaxTitleLen {
		return ErrTitleTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > task.MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

// invalidateTask drops the task's entry and its owner's list entries.
// Cache failures are logged, never surfaced: the database is authoritative.
func (s *TaskService) invalidateTask(ctx context.Context, t *task.Task) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyByID(t.ID)); err != nil {
		log.Printf("[tasks] Failed to invalidate cache for id=%s: %v", t.ID, err)
	}
	s.invalidateOwner(ctx, t.UserID)
}

func (s *TaskService) invalidateOwner(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, ownerListPattern(ownerID)); err != nil {
		log.Printf("[tasks] Failed to invalidate list cache for owner=%s: %v", ownerID, err)
	}
}
