package task

import (
	"time"

	"github.com/maintdesk/maintdesk/internal/models"
)

// StatsResponse aggregates task counts for the stats endpoint and
// the reporting component.
type StatsResponse struct {
	Total              int64                          `json:"total"`
	ByStatus           map[models.TaskStatus]int64    `json:"by_status"`
	ByType             map[models.TaskType]int64      `json:"by_type"`
	ByPriority         map[models.TaskPriority]int64  `json:"by_priority"`
	Overdue            int64                          `json:"overdue"`
	CompletedThisWeek  int64                          `json:"completed_this_week"`
	AvgCompletionHours float64                        `json:"avg_completion_hours"`
}

// completionHoursExpr returns a SQL expression computing the hours
// between created_at and completed_at. The expression is
// dialect-aware: Postgres uses EXTRACT(EPOCH FROM ...), SQLite
// uses JULIANDAY arithmetic.
func (t *taskService) completionHoursExpr() string {
	if t.db.Dialector.Name() == "postgres" {
		return "EXTRACT(EPOCH FROM (completed_at - created_at)) / 3600.0"
	}
	return "(JULIANDAY(completed_at) - JULIANDAY(created_at)) * 24"
}

// Stats computes aggregate counts by status, type, and priority,
// the overdue count, completions in the current week (starting
// Monday 00:00 UTC), and the average completion time in hours over
// completed tasks.
func (t *taskService) Stats() (*StatsResponse, error) {
	resp := &StatsResponse{
		ByStatus:   map[models.TaskStatus]int64{},
		ByType:     map[models.TaskType]int64{},
		ByPriority: map[models.TaskPriority]int64{},
	}

	if err := t.query().Count(&resp.Total).Error; err != nil {
		return nil, wrapDBError(err)
	}

	type groupRow struct {
		Key   string
		Count int64
	}

	var rows []groupRow

	if err := t.query().
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err)
	}
	for _, row := range rows {
		resp.ByStatus[models.TaskStatus(row.Key)] = row.Count
	}

	rows = nil
	if err := t.query().
		Select("type AS key, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err)
	}
	for _, row := range rows {
		resp.ByType[models.TaskType(row.Key)] = row.Count
	}

	rows = nil
	if err := t.query().
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err)
	}
	for _, row := range rows {
		resp.ByPriority[models.TaskPriority(row.Key)] = row.Count
	}

	now := time.Now().UTC()

	if err := t.query().
		Where("due_date < ? AND status NOT IN ?", now, []models.TaskStatus{
			models.TaskStatusCompleted,
			models.TaskStatusCancelled,
		}).
		Count(&resp.Overdue).Error; err != nil {
		return nil, wrapDBError(err)
	}

	if err := t.query().
		Where("status = ? AND completed_at >= ?", models.TaskStatusCompleted, weekStart(now)).
		Count(&resp.CompletedThisWeek).Error; err != nil {
		return nil, wrapDBError(err)
	}

	var avgResult struct{ Avg float64 }
	if err := t.query().
		Select("COALESCE(AVG("+t.completionHoursExpr()+"), 0) AS avg").
		Where("status = ? AND completed_at IS NOT NULL", models.TaskStatusCompleted).
		Scan(&avgResult).Error; err != nil {
		return nil, wrapDBError(err)
	}
	resp.AvgCompletionHours = avgResult.Avg

	return resp, nil
}

// weekStart returns Monday 00:00 UTC of the week containing ts.
func weekStart(ts time.Time) time.Time {
	ts = ts.UTC()
	offset := (int(ts.Weekday()) + 6) % 7
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}
