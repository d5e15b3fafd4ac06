package task

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/maintdesk/maintdesk/internal/metrics"
	metricstest "github.com/maintdesk/maintdesk/internal/metrics/testutil"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/internal/testutil"
	"github.com/maintdesk/maintdesk/pkg/apperr"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type TaskSuite struct {
	suite.Suite
	db  *gorm.DB
	svc Task

	creator  *models.User
	operator *models.User
}

func TestTaskSuite(t *testing.T) {
	suite.Run(t, new(TaskSuite))
}

func (s *TaskSuite) SetupTest() {
	s.db = testutil.OpenTestDB(s.T())
	s.svc = Service(context.Background()).WithDatabase(s.db)

	s.creator = s.createUser("supervisor@example.com", models.RoleSupervisor, true)
	s.operator = s.createUser("operator@example.com", models.RoleOperator, true)
}

func (s *TaskSuite) TearDownTest() {
	testutil.CloseDB(s.db)
}

func (s *TaskSuite) createUser(email string, role models.Role, active bool) *models.User {
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "x",
		Role:         role,
		IsActive:     active,
	}
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *TaskSuite) createRequest() *CreateRequest {
	return &CreateRequest{
		Title:             "Replace breaker panel",
		Description:       "Panel in unit 4 trips under load",
		Type:              models.TaskTypeElectrical,
		Priority:          models.TaskPriorityHigh,
		CreatedBy:         s.creator.ID,
		Location:          "Building A, Unit 4",
		RequiredTools:     []string{"multimeter", "screwdriver"},
		EstimatedDuration: 90,
		DueDate:           time.Now().UTC().Add(48 * time.Hour),
	}
}

func (s *TaskSuite) createTask(mutate func(*CreateRequest)) *models.Task {
	req := s.createRequest()
	if mutate != nil {
		mutate(req)
	}
	task, err := s.svc.Create(req)
	s.Require().NoError(err)
	return task
}

func (s *TaskSuite) TestCreateRoundTrip() {
	created := s.createTask(nil)

	s.Equal(models.TaskStatusPending, created.Status)
	s.Nil(created.StartedAt)
	s.Nil(created.CompletedAt)

	fetched, err := s.svc.Get(created.ID)
	s.Require().NoError(err)

	diff := cmp.Diff(created, fetched,
		cmpopts.EquateApproxTime(time.Second),
	)
	s.Empty(diff)
}

func (s *TaskSuite) TestCreateIncrementsCounter() {
	before := metricstest.CounterValue(s.T(), metrics.TasksCreatedTotal, "electrical", "high")

	s.createTask(nil)

	after := metricstest.CounterValue(s.T(), metrics.TasksCreatedTotal, "electrical", "high")
	s.Equal(before+1, after)
}

func (s *TaskSuite) TestGetSerializesEmptyCollections() {
	created := s.createTask(nil)

	fetched, err := s.svc.Get(created.ID)
	s.Require().NoError(err)

	encoded, err := json.Marshal(fetched)
	s.Require().NoError(err)
	s.Contains(string(encoded), `"notes":[]`)
	s.Contains(string(encoded), `"attachments":[]`)
}

func (s *TaskSuite) TestCreateRejectsPastDueDate() {
	req := s.createRequest()
	req.DueDate = time.Now().UTC().Add(-time.Hour)

	_, err := s.svc.Create(req)
	s.Require().Error(err)
	s.Equal(apperr.Validation, apperr.KindOf(err))
	testutil.AssertCount(s.T(), s.db, &models.Task{}, 0)
}

func (s *TaskSuite) TestCreateRejectsBlankFields() {
	for _, mutate := range []func(*CreateRequest){
		func(r *CreateRequest) { r.Title = "   " },
		func(r *CreateRequest) { r.Description = "" },
		func(r *CreateRequest) { r.Location = "" },
		func(r *CreateRequest) { r.Type = "plumbing" },
		func(r *CreateRequest) { r.Priority = "critical" },
		func(r *CreateRequest) { r.EstimatedDuration = 0 },
	} {
		req := s.createRequest()
		mutate(req)

		_, err := s.svc.Create(req)
		s.Require().Error(err)
		s.Equal(apperr.Validation, apperr.KindOf(err))
	}

	testutil.AssertCount(s.T(), s.db, &models.Task{}, 0)
}

func (s *TaskSuite) TestCreateRejectsInactiveAssignee() {
	inactive := s.createUser("inactive@example.com", models.RoleOperator, false)

	req := s.createRequest()
	req.AssignedTo = &inactive.ID

	_, err := s.svc.Create(req)
	s.Require().Error(err)
	s.Equal(apperr.Validation, apperr.KindOf(err))
	testutil.AssertCount(s.T(), s.db, &models.Task{}, 0)
}

func (s *TaskSuite) TestGetUnknownTaskNotFound() {
	_, err := s.svc.Get(uuid.New())
	s.Require().Error(err)
	s.Equal(apperr.NotFound, apperr.KindOf(err))
}

func (s *TaskSuite) TestStatusTimestampFlow() {
	task := s.createTask(nil)

	// pending -> in_progress stamps started_at once
	updated, err := s.svc.UpdateStatus(task.ID, models.TaskStatusInProgress)
	s.Require().NoError(err)
	s.Require().NotNil(updated.StartedAt)
	startedAt := *updated.StartedAt

	// in_progress -> completed stamps completed_at
	updated, err = s.svc.UpdateStatus(task.ID, models.TaskStatusCompleted)
	s.Require().NoError(err)
	s.Require().NotNil(updated.CompletedAt)
	firstCompletion := *updated.CompletedAt

	// reopening clears completed_at and keeps started_at
	updated, err = s.svc.UpdateStatus(task.ID, models.TaskStatusInProgress)
	s.Require().NoError(err)
	s.Nil(updated.CompletedAt)
	s.Require().NotNil(updated.StartedAt)
	s.WithinDuration(startedAt, *updated.StartedAt, time.Second)

	// re-completing stamps a fresh completed_at
	time.Sleep(10 * time.Millisecond)
	updated, err = s.svc.UpdateStatus(task.ID, models.TaskStatusCompleted)
	s.Require().NoError(err)
	s.Require().NotNil(updated.CompletedAt)
	s.False(updated.CompletedAt.Before(firstCompletion))
}

func (s *TaskSuite) TestUpdateRejectsEmptyPatch() {
	task := s.createTask(nil)

	_, err := s.svc.Update(task.ID, &UpdateRequest{})
	s.Require().Error(err)
	s.Equal(apperr.Validation, apperr.KindOf(err))
}

func (s *TaskSuite) TestUpdatePartialPatch() {
	task := s.createTask(nil)

	title := "Replace breaker panel and label circuits"
	priority := models.TaskPriorityUrgent

	updated, err := s.svc.Update(task.ID, &UpdateRequest{
		Title:    &title,
		Priority: &priority,
	})
	s.Require().NoError(err)
	s.Equal(title, updated.Title)
	s.Equal(priority, updated.Priority)
	s.Equal(task.Description, updated.Description)
	s.Equal(task.Location, updated.Location)
}

func (s *TaskSuite) TestAssignRejectsInactiveUser() {
	task := s.createTask(nil)
	inactive := s.createUser("gone@example.com", models.RoleOperator, false)

	_, err := s.svc.Assign(task.ID, inactive.ID)
	s.Require().Error(err)
	s.Equal(apperr.Validation, apperr.KindOf(err))
}

func (s *TaskSuite) TestAssignActiveUser() {
	task := s.createTask(nil)

	updated, err := s.svc.Assign(task.ID, s.operator.ID)
	s.Require().NoError(err)
	s.Require().NotNil(updated.AssignedTo)
	s.Equal(s.operator.ID, *updated.AssignedTo)
}

func (s *TaskSuite) TestListFiltersCombineConjunctively() {
	s.createTask(func(r *CreateRequest) {
		r.Type = models.TaskTypeElectrical
		r.Priority = models.TaskPriorityHigh
	})
	s.createTask(func(r *CreateRequest) {
		r.Type = models.TaskTypeElectrical
		r.Priority = models.TaskPriorityLow
	})
	s.createTask(func(r *CreateRequest) {
		r.Type = models.TaskTypeMechanical
		r.Priority = models.TaskPriorityHigh
	})

	resp, err := s.svc.List(&ListRequest{
		Type:     models.TaskTypeElectrical,
		Priority: models.TaskPriorityHigh,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), resp.Total)
	s.Require().Len(resp.Items, 1)
	s.Equal(models.TaskTypeElectrical, resp.Items[0].Type)
	s.Equal(models.TaskPriorityHigh, resp.Items[0].Priority)
}

func (s *TaskSuite) TestListFilterByAssignee() {
	assigned := s.createTask(func(r *CreateRequest) {
		r.AssignedTo = &s.operator.ID
	})
	s.createTask(nil)

	resp, err := s.svc.List(&ListRequest{AssignedTo: &s.operator.ID})
	s.Require().NoError(err)
	s.Equal(int64(1), resp.Total)
	s.Require().Len(resp.Items, 1)
	s.Equal(assigned.ID, resp.Items[0].ID)
}

func (s *TaskSuite) TestListSortsByPriorityRank() {
	for _, p := range []models.TaskPriority{
		models.TaskPriorityLow,
		models.TaskPriorityUrgent,
		models.TaskPriorityMedium,
		models.TaskPriorityHigh,
	} {
		p := p
		s.createTask(func(r *CreateRequest) { r.Priority = p })
	}

	resp, err := s.svc.List(&ListRequest{SortBy: "priority", SortOrder: "desc"})
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 4)

	s.Equal(models.TaskPriorityUrgent, resp.Items[0].Priority)
	s.Equal(models.TaskPriorityHigh, resp.Items[1].Priority)
	s.Equal(models.TaskPriorityMedium, resp.Items[2].Priority)
	s.Equal(models.TaskPriorityLow, resp.Items[3].Priority)
}

func (s *TaskSuite) TestListSortsByDueDate() {
	base := time.Now().UTC().Add(24 * time.Hour)
	for _, offset := range []time.Duration{72 * time.Hour, 0, 36 * time.Hour} {
		offset := offset
		s.createTask(func(r *CreateRequest) { r.DueDate = base.Add(offset) })
	}

	resp, err := s.svc.List(&ListRequest{SortBy: "due_date", SortOrder: "asc"})
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 3)
	for i := 1; i < len(resp.Items); i++ {
		s.False(resp.Items[i].DueDate.Before(resp.Items[i-1].DueDate))
	}

	resp, err = s.svc.List(&ListRequest{SortBy: "dueDate", SortOrder: "desc"})
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 3)
	for i := 1; i < len(resp.Items); i++ {
		s.False(resp.Items[i].DueDate.After(resp.Items[i-1].DueDate))
	}
}

func (s *TaskSuite) TestListSortsByTitle() {
	for _, title := range []string{"Clear drains", "Align belts", "Bleed radiators"} {
		title := title
		s.createTask(func(r *CreateRequest) { r.Title = title })
	}

	resp, err := s.svc.List(&ListRequest{SortBy: "title", SortOrder: "asc"})
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 3)
	s.Equal("Align belts", resp.Items[0].Title)
	s.Equal("Bleed radiators", resp.Items[1].Title)
	s.Equal("Clear drains", resp.Items[2].Title)

	resp, err = s.svc.List(&ListRequest{SortBy: "title", SortOrder: "desc"})
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 3)
	s.Equal("Clear drains", resp.Items[0].Title)
	s.Equal("Align belts", resp.Items[2].Title)
}

func (s *TaskSuite) TestListSortsByCreatedAtDescending() {
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		task := s.createTask(nil)
		s.Require().NoError(s.db.Model(task).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	resp, err := s.svc.List(&ListRequest{SortBy: "createdAt", SortOrder: "desc"})
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 3)
	for i := 1; i < len(resp.Items); i++ {
		s.False(resp.Items[i].CreatedAt.After(resp.Items[i-1].CreatedAt))
	}
}

func (s *TaskSuite) TestListRejectsUnknownSortField() {
	_, err := s.svc.List(&ListRequest{SortBy: "color"})
	s.Require().Error(err)
	s.Equal(apperr.Validation, apperr.KindOf(err))
}

func (s *TaskSuite) TestListPaginationPartitionsResults() {
	for i := 0; i < 5; i++ {
		s.createTask(nil)
	}

	seen := map[uuid.UUID]bool{}
	for page := 1; page <= 3; page++ {
		resp, err := s.svc.List(&ListRequest{
			Page:      page,
			Limit:     2,
			SortBy:    "created_at",
			SortOrder: "asc",
		})
		s.Require().NoError(err)
		s.Equal(int64(5), resp.Total)
		s.Equal(3, resp.TotalPages)

		for _, item := range resp.Items {
			s.False(seen[item.ID], "task %s appeared on more than one page", item.ID)
			seen[item.ID] = true
		}
	}

	s.Len(seen, 5)
}

func (s *TaskSuite) TestListPageBeyondEndIsEmpty() {
	s.createTask(nil)

	resp, err := s.svc.List(&ListRequest{Page: 9, Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(1), resp.Total)
	s.Empty(resp.Items)
}

func (s *TaskSuite) TestDeleteRemovesNotesAndAttachments() {
	task := s.createTask(nil)

	_, err := s.svc.AddNote(&NoteRequest{
		TaskID:  task.ID,
		UserID:  s.creator.ID,
		Content: "ordered replacement part",
	})
	s.Require().NoError(err)

	_, err = s.svc.AddAttachment(&AttachmentRequest{
		TaskID:     task.ID,
		UploadedBy: s.creator.ID,
		FileName:   "panel.jpg",
		FileURL:    "https://files.example.com/panel.jpg",
		FileType:   "image/jpeg",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(task.ID))

	testutil.AssertCount(s.T(), s.db, &models.Task{}, 0)
	testutil.AssertCount(s.T(), s.db, &models.TaskNote{}, 0)
	testutil.AssertCount(s.T(), s.db, &models.TaskAttachment{}, 0)
}

func (s *TaskSuite) TestDeleteUnknownTaskNotFound() {
	err := s.svc.Delete(uuid.New())
	s.Require().Error(err)
	s.Equal(apperr.NotFound, apperr.KindOf(err))
}

func (s *TaskSuite) TestNotesKeepInsertionOrder() {
	task := s.createTask(nil)

	contents := []string{"first visit", "second visit", "third visit"}
	base := time.Now().UTC()
	for i, content := range contents {
		note := &models.TaskNote{
			ID:        uuid.New(),
			TaskID:    task.ID,
			UserID:    s.creator.ID,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.db.Create(note).Error)
	}

	notes, err := s.svc.Notes(task.ID)
	s.Require().NoError(err)
	s.Require().Len(notes, len(contents))
	for i, note := range notes {
		s.Equal(contents[i], note.Content)
	}
}

func (s *TaskSuite) TestNotesIsolatedBetweenTasks() {
	first := s.createTask(nil)
	second := s.createTask(nil)

	_, err := s.svc.AddNote(&NoteRequest{
		TaskID:  first.ID,
		UserID:  s.creator.ID,
		Content: "only on the first task",
	})
	s.Require().NoError(err)

	notes, err := s.svc.Notes(second.ID)
	s.Require().NoError(err)
	s.Empty(notes)
}

func (s *TaskSuite) TestAddNoteRejectsBlankContent() {
	task := s.createTask(nil)

	_, err := s.svc.AddNote(&NoteRequest{
		TaskID:  task.ID,
		UserID:  s.creator.ID,
		Content: "   ",
	})
	s.Require().Error(err)
	s.Equal(apperr.Validation, apperr.KindOf(err))
}

func (s *TaskSuite) TestAddAttachmentToMissingTask() {
	_, err := s.svc.AddAttachment(&AttachmentRequest{
		TaskID:     uuid.New(),
		UploadedBy: s.creator.ID,
		FileName:   "orphan.pdf",
		FileURL:    "https://files.example.com/orphan.pdf",
		FileType:   "application/pdf",
	})
	s.Require().Error(err)
	s.Equal(apperr.NotFound, apperr.KindOf(err))
	testutil.AssertCount(s.T(), s.db, &models.TaskAttachment{}, 0)
}

func (s *TaskSuite) TestAttachmentsKeepUploadOrder() {
	task := s.createTask(nil)

	names := []string{"before.jpg", "during.jpg", "after.jpg"}
	base := time.Now().UTC()
	for i, name := range names {
		attachment := &models.TaskAttachment{
			ID:         uuid.New(),
			TaskID:     task.ID,
			FileName:   name,
			FileURL:    "https://files.example.com/" + name,
			FileType:   "image/jpeg",
			UploadedBy: s.creator.ID,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.db.Create(attachment).Error)
	}

	attachments, err := s.svc.Attachments(task.ID)
	s.Require().NoError(err)
	s.Require().Len(attachments, len(names))
	for i, attachment := range attachments {
		s.Equal(names[i], attachment.FileName)
	}
}

func (s *TaskSuite) TestStatsCountsAndAverages() {
	s.createTask(func(r *CreateRequest) {
		r.Type = models.TaskTypeElectrical
		r.Priority = models.TaskPriorityHigh
	})
	s.createTask(func(r *CreateRequest) {
		r.Type = models.TaskTypeMechanical
		r.Priority = models.TaskPriorityLow
	})
	completed := s.createTask(func(r *CreateRequest) {
		r.Type = models.TaskTypeMechanical
		r.Priority = models.TaskPriorityLow
	})

	_, err := s.svc.UpdateStatus(completed.ID, models.TaskStatusCompleted)
	s.Require().NoError(err)

	stats, err := s.svc.Stats()
	s.Require().NoError(err)

	s.Equal(int64(3), stats.Total)
	s.Equal(int64(2), stats.ByStatus[models.TaskStatusPending])
	s.Equal(int64(1), stats.ByStatus[models.TaskStatusCompleted])
	s.Equal(int64(1), stats.ByType[models.TaskTypeElectrical])
	s.Equal(int64(2), stats.ByType[models.TaskTypeMechanical])
	s.Equal(int64(1), stats.ByPriority[models.TaskPriorityHigh])
	s.Equal(int64(2), stats.ByPriority[models.TaskPriorityLow])
	s.Equal(int64(0), stats.Overdue)
	s.Equal(int64(1), stats.CompletedThisWeek)
	s.GreaterOrEqual(stats.AvgCompletionHours, float64(0))
}

func (s *TaskSuite) TestStatsCountsOverdueOpenTasksOnly() {
	due := time.Now().UTC().Add(time.Second)
	overdue := s.createTask(func(r *CreateRequest) { r.DueDate = due })
	cancelled := s.createTask(func(r *CreateRequest) { r.DueDate = due })

	_, err := s.svc.UpdateStatus(cancelled.ID, models.TaskStatusCancelled)
	s.Require().NoError(err)

	// push both past due
	s.Require().NoError(s.db.Model(&models.Task{}).
		Where("id IN ?", []uuid.UUID{overdue.ID, cancelled.ID}).
		Update("due_date", time.Now().UTC().Add(-time.Hour)).Error)

	stats, err := s.svc.Stats()
	s.Require().NoError(err)
	s.Equal(int64(1), stats.Overdue)
}

func (s *TaskSuite) TestWeekStartIsMonday() {
	// 2026-08-28 is a Friday
	friday := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	s.Equal(monday, weekStart(friday))

	// a Monday is its own week start
	s.Equal(monday, weekStart(monday.Add(5*time.Minute)))

	// Sunday belongs to the preceding Monday's week
	sunday := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
	s.Equal(monday, weekStart(sunday))
}
