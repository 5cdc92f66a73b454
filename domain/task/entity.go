package task

import (
	"time"
)

// Field length limits enforced at creation and update.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// Task represents a single to-do item owned by one user.
type Task struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:1000" json:"description"`
	UserID      string    `gorm:"index;not null;type:text" json:"user_id"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Patch describes a partial update. Only non-nil fields are applied;
// the owner is never part of a patch.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}
