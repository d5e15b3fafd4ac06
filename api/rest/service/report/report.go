package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maintdesk/maintdesk/api/rest/service/task"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
	"github.com/maintdesk/maintdesk/pkg/db"
	"gorm.io/gorm"
)

// Report is the read side: grouped aggregates over the tasks and
// users tables for dashboards and exports. It has no write path.
type Report interface {
	WithDatabase(*gorm.DB) Report
	Dashboard() (*DashboardResponse, error)
	Performance(*Request) (*PerformanceResponse, error)
	Export(*Request, string) ([]byte, string, error)
}

type reportService struct {
	ctx context.Context
	db  *gorm.DB
}

func Service(ctx context.Context) Report {
	return &reportService{
		ctx: ctx,
		db:  db.Connection(),
	}
}

func (r *reportService) WithDatabase(conn *gorm.DB) Report {
	r.db = conn
	return r
}

// Request mirrors the task listing filter shape: an optional
// created_at range plus user/type/priority/status narrowing.
type Request struct {
	From     *time.Time
	To       *time.Time
	UserID   *uuid.UUID
	Type     models.TaskType
	Priority models.TaskPriority
	Status   models.TaskStatus
}

func (req *Request) apply(q *gorm.DB) *gorm.DB {
	if req.From != nil {
		q = q.Where("created_at >= ?", *req.From)
	}
	if req.To != nil {
		q = q.Where("created_at <= ?", *req.To)
	}
	if req.UserID != nil {
		q = q.Where("assigned_to = ?", *req.UserID)
	}
	if req.Type != "" {
		q = q.Where("type = ?", req.Type)
	}
	if req.Priority != "" {
		q = q.Where("priority = ?", req.Priority)
	}
	if req.Status != "" {
		q = q.Where("status = ?", req.Status)
	}
	return q
}

// UserProductivity is one dashboard row per active user.
type UserProductivity struct {
	UserID             uuid.UUID   `json:"user_id"`
	Name               string      `json:"name"`
	Role               models.Role `json:"role"`
	Assigned           int64       `json:"assigned"`
	Completed          int64       `json:"completed"`
	CompletionRate     float64     `json:"completion_rate"`
	AvgCompletionHours float64     `json:"avg_completion_hours"`
	Insight            string      `json:"insight"`
}

type DashboardResponse struct {
	Tasks *task.StatsResponse `json:"tasks"`
	Users []UserProductivity  `json:"users"`
}

// Dashboard combines overall task statistics with per-user
// productivity rows for active users.
func (r *reportService) Dashboard() (*DashboardResponse, error) {
	stats, err := task.Service(r.ctx).WithDatabase(r.db).Stats()
	if err != nil {
		return nil, err
	}

	type row struct {
		UserID    string
		Name      string
		Role      string
		Assigned  int64
		Completed int64
		AvgHours  float64
	}

	var rows []row
	err = r.db.WithContext(r.ctx).
		Table("users u").
		Select(`u.id AS user_id, u.name AS name, u.role AS role,
			COUNT(t.id) AS assigned,
			COALESCE(SUM(CASE WHEN t.status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(AVG(CASE WHEN t.status = 'completed' THEN ` + r.completionHoursExpr("t") + ` END), 0) AS avg_hours`).
		Joins("LEFT JOIN tasks t ON t.assigned_to = u.id").
		Where("u.is_active = ?", true).
		Group("u.id, u.name, u.role").
		Order("completed DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "database failure")
	}

	users := make([]UserProductivity, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.UserID)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.Internal, "malformed user id in aggregate")
		}

		rate := 0.0
		if row.Assigned > 0 {
			rate = float64(row.Completed) / float64(row.Assigned)
		}

		users = append(users, UserProductivity{
			UserID:             id,
			Name:               row.Name,
			Role:               models.Role(row.Role),
			Assigned:           row.Assigned,
			Completed:          row.Completed,
			CompletionRate:     rate,
			AvgCompletionHours: row.AvgHours,
			Insight:            Insight(rate),
		})
	}

	return &DashboardResponse{Tasks: stats, Users: users}, nil
}

type PerformanceResponse struct {
	Total              int64                         `json:"total"`
	Completed          int64                         `json:"completed"`
	Overdue            int64                         `json:"overdue"`
	CompletionRate     float64                       `json:"completion_rate"`
	AvgCompletionHours float64                       `json:"avg_completion_hours"`
	ByType             map[models.TaskType]int64     `json:"by_type"`
	ByPriority         map[models.TaskPriority]int64 `json:"by_priority"`
	Insight            string                        `json:"insight"`
}

// Performance computes filtered aggregates with a derived insight
// string.
func (r *reportService) Performance(req *Request) (*PerformanceResponse, error) {
	resp := &PerformanceResponse{
		ByType:     map[models.TaskType]int64{},
		ByPriority: map[models.TaskPriority]int64{},
	}

	base := func() *gorm.DB {
		return req.apply(r.db.WithContext(r.ctx).Model(&models.Task{}))
	}

	if err := base().Count(&resp.Total).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "database failure")
	}

	if err := base().
		Where("status = ?", models.TaskStatusCompleted).
		Count(&resp.Completed).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "database failure")
	}

	if err := base().
		Where("due_date < ? AND status NOT IN ?", time.Now().UTC(), []models.TaskStatus{
			models.TaskStatusCompleted,
			models.TaskStatusCancelled,
		}).
		Count(&resp.Overdue).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "database failure")
	}

	var avgResult struct{ Avg float64 }
	if err := base().
		Select("COALESCE(AVG("+r.completionHoursExpr("")+"), 0) AS avg").
		Where("status = ? AND completed_at IS NOT NULL", models.TaskStatusCompleted).
		Scan(&avgResult).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "database failure")
	}
	resp.AvgCompletionHours = avgResult.Avg

	type groupRow struct {
		Key   string
		Count int64
	}

	var rows []groupRow
	if err := base().
		Select("type AS key, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "database failure")
	}
	for _, row := range rows {
		resp.ByType[models.TaskType(row.Key)] = row.Count
	}

	rows = nil
	if err := base().
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "database failure")
	}
	for _, row := range rows {
		resp.ByPriority[models.TaskPriority(row.Key)] = row.Count
	}

	if resp.Total > 0 {
		resp.CompletionRate = float64(resp.Completed) / float64(resp.Total)
	}
	resp.Insight = Insight(resp.CompletionRate)

	return resp, nil
}

// Export serializes a performance report. Supported formats are
// json and csv; pdf remains unimplemented.
func (r *reportService) Export(req *Request, format string) ([]byte, string, error) {
	report, err := r.Performance(req)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "", "json":
		buf, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, "", apperr.Wrap(err, apperr.Internal, "report serialization failure")
		}
		return buf, "application/json", nil

	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)

		records := [][]string{
			{"metric", "value"},
			{"total", fmt.Sprintf("%d", report.Total)},
			{"completed", fmt.Sprintf("%d", report.Completed)},
			{"overdue", fmt.Sprintf("%d", report.Overdue)},
			{"completion_rate", fmt.Sprintf("%.4f", report.CompletionRate)},
			{"avg_completion_hours", fmt.Sprintf("%.4f", report.AvgCompletionHours)},
			{"insight", report.Insight},
		}
		for taskType, count := range report.ByType {
			records = append(records, []string{"type_" + string(taskType), fmt.Sprintf("%d", count)})
		}
		for priority, count := range report.ByPriority {
			records = append(records, []string{"priority_" + string(priority), fmt.Sprintf("%d", count)})
		}

		if err := w.WriteAll(records); err != nil {
			return nil, "", apperr.Wrap(err, apperr.Internal, "report serialization failure")
		}

		return buf.Bytes(), "text/csv", nil

	case "pdf":
		return nil, "", apperr.New(apperr.Validation, "pdf export is not implemented")

	default:
		return nil, "", apperr.New(apperr.Validation, "unsupported export format: %v", format)
	}
}

// Insight maps a completion rate to its qualitative label.
func Insight(rate float64) string {
	switch {
	case rate >= 0.8:
		return "excellent"
	case rate >= 0.6:
		return "good"
	case rate >= 0.4:
		return "fair"
	default:
		return "needs improvement"
	}
}

// completionHoursExpr returns a dialect-aware SQL expression for
// the hours between created_at and completed_at, optionally
// qualified with a table alias.
func (r *reportService) completionHoursExpr(alias string) string {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	if r.db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("EXTRACT(EPOCH FROM (%scompleted_at - %screated_at)) / 3600.0", prefix, prefix)
	}
	return fmt.Sprintf("(JULIANDAY(%scompleted_at) - JULIANDAY(%screated_at)) * 24", prefix, prefix)
}
