package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskNote is an append-only comment on a task. Notes are never
// mutated after creation.
type TaskNote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

type TaskNotes []*TaskNote
