package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maintdesk/maintdesk/internal/metrics"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
	"github.com/maintdesk/maintdesk/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task owns validation and persistence for maintenance tasks and
// their append-only notes and attachments. The service has no
// notion of the caller's role; visibility narrowing is the route
// layer's concern.
type Task interface {
	WithDatabase(*gorm.DB) Task
	Create(*CreateRequest) (*models.Task, error)
	Get(uuid.UUID) (*models.Task, error)
	List(*ListRequest) (*ListResponse, error)
	Update(uuid.UUID, *UpdateRequest) (*models.Task, error)
	UpdateStatus(uuid.UUID, models.TaskStatus) (*models.Task, error)
	Assign(uuid.UUID, uuid.UUID) (*models.Task, error)
	Delete(uuid.UUID) error
	AddNote(*NoteRequest) (*models.TaskNote, error)
	Notes(uuid.UUID) (models.TaskNotes, error)
	AddAttachment(*AttachmentRequest) (*models.TaskAttachment, error)
	Attachments(uuid.UUID) (models.TaskAttachments, error)
	Stats() (*StatsResponse, error)
}

type taskService struct {
	ctx context.Context
	db  *gorm.DB
}

func Service(ctx context.Context) Task {
	return &taskService{
		ctx: ctx,
		db:  db.Connection(),
	}
}

func (t *taskService) WithDatabase(conn *gorm.DB) Task {
	t.db = conn
	return t
}

type CreateRequest struct {
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Type              models.TaskType     `json:"type"`
	Priority          models.TaskPriority `json:"priority"`
	AssignedTo        *uuid.UUID          `json:"assigned_to"`
	CreatedBy         uuid.UUID           `json:"-"`
	Location          string              `json:"location"`
	RequiredTools     []string            `json:"required_tools"`
	EstimatedDuration int                 `json:"estimated_duration"`
	DueDate           time.Time           `json:"due_date"`
}

func (r *CreateRequest) validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)

	switch {
	case r.Title == "":
		return apperr.New(apperr.Validation, "title must not be empty")
	case r.Description == "":
		return apperr.New(apperr.Validation, "description must not be empty")
	case r.Location == "":
		return apperr.New(apperr.Validation, "location must not be empty")
	case !r.Type.Valid():
		return apperr.New(apperr.Validation, "invalid task type: %v", r.Type)
	case !r.Priority.Valid():
		return apperr.New(apperr.Validation, "invalid task priority: %v", r.Priority)
	case r.EstimatedDuration <= 0:
		return apperr.New(apperr.Validation, "estimated duration must be positive")
	case !r.DueDate.After(time.Now().UTC()):
		return apperr.New(apperr.Validation, "due date must be in the future")
	}

	return nil
}

// Create validates the request and persists a new pending task.
// The assignee existence check and the insert run in one
// transaction so a concurrent deactivation cannot slip between
// them.
func (t *taskService) Create(req *CreateRequest) (*models.Task, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:                uuid.New(),
		Title:             req.Title,
		Description:       req.Description,
		Type:              req.Type,
		Priority:          req.Priority,
		Status:            models.TaskStatusPending,
		AssignedTo:        req.AssignedTo,
		CreatedBy:         req.CreatedBy,
		Location:          req.Location,
		RequiredTools:     datatypes.NewJSONSlice(req.RequiredTools),
		EstimatedDuration: req.EstimatedDuration,
		DueDate:           req.DueDate,
	}

	err := t.db.WithContext(t.ctx).Transaction(func(tx *gorm.DB) error {
		if req.AssignedTo != nil {
			if err := assertActiveUser(tx, *req.AssignedTo); err != nil {
				return err
			}
		}

		return wrapDBError(tx.Create(task).Error)
	})
	if err != nil {
		return nil, err
	}

	task.Notes = []*models.TaskNote{}
	task.Attachments = []*models.TaskAttachment{}

	metrics.TasksCreatedTotal.
		WithLabelValues(string(task.Type), string(task.Priority)).
		Inc()

	return task, nil
}

// Get fetches a task with its notes (ascending created_at) and
// attachments (ascending uploaded_at).
func (t *taskService) Get(id uuid.UUID) (*models.Task, error) {
	var (
		task models.Task
		q    = t.db.WithContext(t.ctx)
	)

	err := q.
		Preload("Notes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Attachments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("uploaded_at ASC")
		}).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, wrapNotFound(err, id)
	}

	if task.Notes == nil {
		task.Notes = []*models.TaskNote{}
	}
	if task.Attachments == nil {
		task.Attachments = []*models.TaskAttachment{}
	}

	return &task, nil
}

type UpdateRequest struct {
	Title             *string              `json:"title"`
	Description       *string              `json:"description"`
	Type              *models.TaskType     `json:"type"`
	Priority          *models.TaskPriority `json:"priority"`
	Status            *models.TaskStatus   `json:"status"`
	AssignedTo        *uuid.UUID           `json:"assigned_to"`
	Location          *string              `json:"location"`
	RequiredTools     *[]string            `json:"required_tools"`
	EstimatedDuration *int                 `json:"estimated_duration"`
	DueDate           *time.Time           `json:"due_date"`
}

// Update applies a partial patch. Each present field is validated
// with the same rules as creation. Status changes carry timestamp
// side effects: the first transition into in_progress stamps
// started_at, entering completed stamps completed_at, and leaving
// completed clears it. Transition legality is otherwise not
// enforced; any of the four statuses is accepted from any state.
func (t *taskService) Update(id uuid.UUID, req *UpdateRequest) (*models.Task, error) {
	err := t.db.WithContext(t.ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			return wrapNotFound(err, id)
		}

		updates, err := req.changes(&task)
		if err != nil {
			return err
		}

		if len(updates) == 0 {
			return apperr.New(apperr.Validation, "no fields to update")
		}

		if req.AssignedTo != nil {
			if err := assertActiveUser(tx, *req.AssignedTo); err != nil {
				return err
			}
		}

		return wrapDBError(tx.Model(&task).Updates(updates).Error)
	})
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		metrics.TaskStatusTransitionsTotal.
			WithLabelValues(string(*req.Status)).
			Inc()
	}
	if req.AssignedTo != nil {
		metrics.TaskAssignmentsTotal.Inc()
	}

	return t.Get(id)
}

// changes builds the column update map for the patch against the
// task's current state.
func (r *UpdateRequest) changes(task *models.Task) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return nil, apperr.New(apperr.Validation, "title must not be empty")
		}
		updates["title"] = title
	}

	if r.Description != nil {
		description := strings.TrimSpace(*r.Description)
		if description == "" {
			return nil, apperr.New(apperr.Validation, "description must not be empty")
		}
		updates["description"] = description
	}

	if r.Location != nil {
		location := strings.TrimSpace(*r.Location)
		if location == "" {
			return nil, apperr.New(apperr.Validation, "location must not be empty")
		}
		updates["location"] = location
	}

	if r.Type != nil {
		if !r.Type.Valid() {
			return nil, apperr.New(apperr.Validation, "invalid task type: %v", *r.Type)
		}
		updates["type"] = *r.Type
	}

	if r.Priority != nil {
		if !r.Priority.Valid() {
			return nil, apperr.New(apperr.Validation, "invalid task priority: %v", *r.Priority)
		}
		updates["priority"] = *r.Priority
	}

	if r.EstimatedDuration != nil {
		if *r.EstimatedDuration <= 0 {
			return nil, apperr.New(apperr.Validation, "estimated duration must be positive")
		}
		updates["estimated_duration"] = *r.EstimatedDuration
	}

	if r.DueDate != nil {
		updates["due_date"] = *r.DueDate
	}

	if r.RequiredTools != nil {
		updates["required_tools"] = datatypes.NewJSONSlice(*r.RequiredTools)
	}

	if r.AssignedTo != nil {
		updates["assigned_to"] = *r.AssignedTo
	}

	if r.Status != nil {
		status := *r.Status
		if !status.Valid() {
			return nil, apperr.New(apperr.Validation, "invalid task status: %v", status)
		}

		now := time.Now().UTC()

		if status == models.TaskStatusInProgress && task.StartedAt == nil {
			updates["started_at"] = now
		}
		if status == models.TaskStatusCompleted && task.Status != models.TaskStatusCompleted {
			updates["completed_at"] = now
		}
		if status != models.TaskStatusCompleted && task.Status == models.TaskStatusCompleted {
			updates["completed_at"] = nil
		}

		updates["status"] = status
	}

	return updates, nil
}

// UpdateStatus is a single-field wrapper over Update, carrying the
// same timestamp side effects.
func (t *taskService) UpdateStatus(id uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	return t.Update(id, &UpdateRequest{Status: &status})
}

// Assign is a single-field wrapper over Update, carrying the same
// active-assignee check.
func (t *taskService) Assign(id, userID uuid.UUID) (*models.Task, error) {
	return t.Update(id, &UpdateRequest{AssignedTo: &userID})
}

// Delete removes the task together with its notes and attachments.
func (t *taskService) Delete(id uuid.UUID) error {
	return t.db.WithContext(t.ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			return wrapNotFound(err, id)
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskNote{}).Error; err != nil {
			return wrapDBError(err)
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAttachment{}).Error; err != nil {
			return wrapDBError(err)
		}

		return wrapDBError(tx.Delete(&task).Error)
	})
}

// assertActiveUser fails with a validation error unless the user
// exists and is active at the time of the check.
func assertActiveUser(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error; err != nil {
		return wrapDBError(err)
	}

	if count == 0 {
		return apperr.New(apperr.Validation, "assigned user does not exist or is inactive")
	}

	return nil
}

func wrapNotFound(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if err == gorm.ErrRecordNotFound {
		return apperr.New(apperr.NotFound, "task %s does not exist", id)
	}
	return wrapDBError(err)
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Wrap(err, apperr.Internal, "database failure")
}
