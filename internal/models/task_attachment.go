package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskAttachment is append-only file metadata attached to a task.
// The file itself lives elsewhere; only the URL is recorded.
type TaskAttachment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID     uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	FileName   string    `gorm:"not null" json:"file_name"`
	FileURL    string    `gorm:"not null" json:"file_url"`
	FileType   string    `gorm:"not null" json:"file_type"`
	UploadedBy uuid.UUID `gorm:"type:uuid;index;not null" json:"uploaded_by"`
	UploadedAt time.Time `gorm:"not null" json:"uploaded_at"`
}

type TaskAttachments []*TaskAttachment
