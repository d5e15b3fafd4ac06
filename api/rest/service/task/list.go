package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
	"gorm.io/gorm"
)

const defaultLimit = 10

// priorityOrdinal sorts priorities by rank instead of lexically:
// urgent=4 > high=3 > medium=2 > low=1.
const priorityOrdinal = `CASE priority
	WHEN 'urgent' THEN 4
	WHEN 'high' THEN 3
	WHEN 'medium' THEN 2
	WHEN 'low' THEN 1
	ELSE 0 END`

var sortColumns = map[string]string{
	"priority":   priorityOrdinal,
	"due_date":   "due_date",
	"dueDate":    "due_date",
	"created_at": "created_at",
	"createdAt":  "created_at",
	"title":      "title",
}

// ListRequest carries the conjunctive filters and pagination
// parameters for task listings. All filters are optional.
type ListRequest struct {
	Type       models.TaskType
	Status     models.TaskStatus
	Priority   models.TaskPriority
	AssignedTo *uuid.UUID
	CreatedBy  *uuid.UUID
	DueBefore  *time.Time
	DueAfter   *time.Time
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

type ListResponse struct {
	Items      models.Tasks `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

// List applies the filters, counts the filtered total, then sorts
// and paginates. Items omit notes and attachments; hydrate through
// Get. The sort is stable for identical parameters over unchanged
// data, with ties left to the database's natural row order.
func (t *taskService) List(req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = defaultLimit
	}

	order, err := req.order()
	if err != nil {
		return nil, err
	}

	var total int64
	if err := req.apply(t.query()).Count(&total).Error; err != nil {
		return nil, wrapDBError(err)
	}

	items := make(models.Tasks, 0)
	err = req.apply(t.query()).
		Order(order).
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&items).Error
	if err != nil {
		return nil, wrapDBError(err)
	}

	return &ListResponse{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
	}, nil
}

func (t *taskService) query() *gorm.DB {
	return t.db.WithContext(t.ctx).Model(&models.Task{})
}

// apply narrows a query by every filter present on the request.
// Filters combine conjunctively.
func (r *ListRequest) apply(q *gorm.DB) *gorm.DB {
	if r.Type != "" {
		q = q.Where("type = ?", r.Type)
	}
	if r.Status != "" {
		q = q.Where("status = ?", r.Status)
	}
	if r.Priority != "" {
		q = q.Where("priority = ?", r.Priority)
	}
	if r.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *r.AssignedTo)
	}
	if r.CreatedBy != nil {
		q = q.Where("created_by = ?", *r.CreatedBy)
	}
	if r.DueBefore != nil {
		q = q.Where("due_date < ?", *r.DueBefore)
	}
	if r.DueAfter != nil {
		q = q.Where("due_date > ?", *r.DueAfter)
	}
	return q
}

func (r *ListRequest) order() (string, error) {
	column := sortColumns["created_at"]
	if r.SortBy != "" {
		mapped, ok := sortColumns[r.SortBy]
		if !ok {
			return "", apperr.New(apperr.Validation, "invalid sort field: %v", r.SortBy)
		}
		column = mapped
	}

	direction := "DESC"
	switch r.SortOrder {
	case "", "desc":
	case "asc":
		direction = "ASC"
	default:
		return "", apperr.New(apperr.Validation, "invalid sort order: %v", r.SortOrder)
	}

	return column + " " + direction, nil
}
