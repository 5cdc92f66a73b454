package tasks

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/task-tracker/domain/task"
	"gorm.io/gorm"
)

// Recognized values for the list status filter and sort key. An empty string
// means "no filter" / "no explicit order".
const (
	StatusActive    = "active"
	StatusCompleted = "completed"

	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
)

// Repository handles task persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&task.Task{})
}

// Create saves a new task to the database.
func (r *Repository) Create(t *task.Task) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(id string) (*task.Task, error) {
	var t task.Task
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindByOwner retrieves all tasks for one owner, optionally filtered by
// completion status and ordered by a timestamp column, newest first.
// An empty result is an empty slice, never an error.
func (r *Repository) FindByOwner(ownerID, status, sort string) ([]task.Task, error) {
	q := r.db.Where("user_id = ?", ownerID)

	switch status {
	case StatusActive:
		q = q.Where("completed = ?", false)
	case StatusCompleted:
		q = q.Where("completed = ?", true)
	}

	switch sort {
	case SortCreatedAt:
		q = q.Order("created_at DESC")
	case SortUpdatedAt:
		q = q.Order("updated_at DESC")
	}

	tasks := []task.Task{}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial update to a task inside a transaction. Fields not
// present in the patch keep their prior values; the owner is never touched.
// The updated timestamp is always refreshed.
func (r *Repository) Update(id string, patch task.Patch) (*task.Task, error) {
	var updated task.Task

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var t task.Task
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		t.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&t).Error; err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return &updated, nil
}

// Toggle flips a task's completion flag inside a transaction and refreshes
// the updated timestamp.
func (r *Repository) Toggle(id string) (*task.Task, error) {
	var updated task.Task

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var t task.Task
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		t.Completed = !t.Completed
		t.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&t).Error; err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return &updated, nil
}

// Delete removes a task by ID and returns the removed record. A second
// delete of the same id reports ErrTaskNotFound.
func (r *Repository) Delete(id string) (*task.Task, error) {
	var deleted task.Task

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var t task.Task
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if err := tx.Delete(&task.Task{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return &deleted, nil
}
