package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maintdesk/maintdesk/internal/metrics"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
)

type NoteRequest struct {
	TaskID  uuid.UUID `json:"-"`
	UserID  uuid.UUID `json:"-"`
	Content string    `json:"content"`
}

// AddNote appends a note to an existing task. Notes have no update
// path.
func (t *taskService) AddNote(req *NoteRequest) (*models.TaskNote, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.New(apperr.Validation, "note content must not be empty")
	}

	if err := t.assertTaskExists(req.TaskID); err != nil {
		return nil, err
	}

	note := &models.TaskNote{
		ID:        uuid.New(),
		TaskID:    req.TaskID,
		UserID:    req.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := t.db.WithContext(t.ctx).Create(note).Error; err != nil {
		return nil, wrapDBError(err)
	}

	metrics.TaskNotesTotal.Inc()

	return note, nil
}

// Notes lists a task's notes in insertion order.
func (t *taskService) Notes(taskID uuid.UUID) (models.TaskNotes, error) {
	if err := t.assertTaskExists(taskID); err != nil {
		return nil, err
	}

	notes := make(models.TaskNotes, 0)
	err := t.db.WithContext(t.ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&notes).Error
	if err != nil {
		return nil, wrapDBError(err)
	}

	return notes, nil
}

type AttachmentRequest struct {
	TaskID     uuid.UUID `json:"-"`
	UploadedBy uuid.UUID `json:"-"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileType   string    `json:"file_type"`
}

// AddAttachment appends attachment metadata to an existing task.
// The metadata is stored verbatim; filename sanitization and size
// limits are the caller's concern.
func (t *taskService) AddAttachment(req *AttachmentRequest) (*models.TaskAttachment, error) {
	switch {
	case req.FileName == "":
		return nil, apperr.New(apperr.Validation, "file name must not be empty")
	case req.FileURL == "":
		return nil, apperr.New(apperr.Validation, "file url must not be empty")
	case req.FileType == "":
		return nil, apperr.New(apperr.Validation, "file type must not be empty")
	}

	if err := t.assertTaskExists(req.TaskID); err != nil {
		return nil, err
	}

	attachment := &models.TaskAttachment{
		ID:         uuid.New(),
		TaskID:     req.TaskID,
		FileName:   req.FileName,
		FileURL:    req.FileURL,
		FileType:   req.FileType,
		UploadedBy: req.UploadedBy,
		UploadedAt: time.Now().UTC(),
	}

	if err := t.db.WithContext(t.ctx).Create(attachment).Error; err != nil {
		return nil, wrapDBError(err)
	}

	metrics.TaskAttachmentsTotal.Inc()

	return attachment, nil
}

// Attachments lists a task's attachments in upload order.
func (t *taskService) Attachments(taskID uuid.UUID) (models.TaskAttachments, error) {
	if err := t.assertTaskExists(taskID); err != nil {
		return nil, err
	}

	attachments := make(models.TaskAttachments, 0)
	err := t.db.WithContext(t.ctx).
		Where("task_id = ?", taskID).
		Order("uploaded_at ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, wrapDBError(err)
	}

	return attachments, nil
}

func (t *taskService) assertTaskExists(id uuid.UUID) error {
	var count int64
	if err := t.db.WithContext(t.ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return wrapDBError(err)
	}

	if count == 0 {
		return apperr.New(apperr.NotFound, "task %s does not exist", id)
	}

	return nil
}
