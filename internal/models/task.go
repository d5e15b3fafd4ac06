package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TaskType enumerates the maintenance disciplines.
type TaskType string

const (
	TaskTypeElectrical TaskType = "electrical"
	TaskTypeMechanical TaskType = "mechanical"
)

// Valid reports whether the type is one of the known values.
func (t TaskType) Valid() bool {
	return t == TaskTypeElectrical || t == TaskTypeMechanical
}

// TaskPriority enumerates task urgency levels.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Ordinal returns the priority's rank: urgent=4 > high=3 >
// medium=2 > low=1. Unknown priorities rank 0.
func (p TaskPriority) Ordinal() int {
	switch p {
	case TaskPriorityUrgent:
		return 4
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	return p.Ordinal() > 0
}

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

type Task struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string                      `gorm:"not null" json:"title"`
	Description       string                      `gorm:"not null" json:"description"`
	Type              TaskType                    `gorm:"type:text;index;not null" json:"type"`
	Priority          TaskPriority                `gorm:"type:text;index;not null" json:"priority"`
	Status            TaskStatus                  `gorm:"type:text;index;not null" json:"status"`
	AssignedTo        *uuid.UUID                  `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	CreatedBy         uuid.UUID                   `gorm:"type:uuid;index;not null" json:"created_by"`
	Location          string                      `gorm:"not null" json:"location"`
	RequiredTools     datatypes.JSONSlice[string] `gorm:"type:json" json:"required_tools"`
	EstimatedDuration int                         `gorm:"not null" json:"estimated_duration"`
	DueDate           time.Time                   `gorm:"index;not null" json:"due_date"`
	StartedAt         *time.Time                  `json:"started_at,omitempty"`
	CompletedAt       *time.Time                  `json:"completed_at,omitempty"`
	CreatedAt         time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"not null" json:"updated_at"`
	Notes             []*TaskNote                 `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"notes"`
	Attachments       []*TaskAttachment           `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"attachments"`
}

type Tasks []*Task
