package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/trainingcenter/task-service/internal/models"
	"github.com/trainingcenter/task-service/internal/repository"
	"gorm.io/gorm"
)

// TaskServiceTestSuite covers task CRUD and assignment rules
type TaskServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *TaskService
	projects repository.ProjectRepository
	ctx      context.Context
	now      time.Time

	admin   models.UserViewer
	creator models.UserViewer
	alice   models.UserViewer
	bob     models.UserViewer
}

func (suite *TaskServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = openTestDB()
	suite.Require().NoError(err)

	suite.projects = repository.NewProjectRepository(suite.db)
	suite.service = NewTaskService(repository.NewTaskRepository(suite.db), suite.projects, &recordingLogger{}, time.UTC)
	suite.now = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
	suite.ctx = context.Background()

	suite.admin = models.UserViewer{ID: "root", Role: models.RoleAdmin}
	suite.creator = models.UserViewer{ID: "creator", Role: models.RoleTrainer}
	suite.alice = models.UserViewer{ID: "alice", Role: models.RoleStaff}
	suite.bob = models.UserViewer{ID: "bob", Role: models.RoleStaff}
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createTask(input CreateTaskInput) *models.Task {
	task, err := suite.service.CreateTask(suite.ctx, suite.creator, input)
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) TestCreateTask_Defaults() {
	task := suite.createTask(CreateTaskInput{Title: "  Prepare handouts  "})

	suite.NotEmpty(task.ID)
	suite.Equal("Prepare handouts", task.Title)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)
	suite.Equal("creator", task.CreatorID)
	suite.Equal([]string{"creator"}, task.Assignees)
	suite.Equal(models.TaskCategoryAdHoc, task.TaskCategory)
	suite.False(task.IsTemplate)
	suite.Nil(task.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestCreateTask_DailyRecurringBecomesTemplate() {
	due := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	task := suite.createTask(CreateTaskInput{
		Title:            "Open the front desk",
		DueDate:          &due,
		Assignees:        []string{"alice", "alice", " "},
		IsRecurring:      true,
		RecurringPattern: models.RecurrenceDaily,
	})

	suite.True(task.IsTemplate)
	suite.Equal(models.TaskCategoryRecurringDaily, task.TaskCategory)
	suite.Equal([]string{"alice"}, task.Assignees)

	tasks, err := suite.service.ListTasks(suite.ctx, ListTasksInput{Viewer: suite.alice})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(task.ID, *tasks[0].SourceRecurringTaskID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_WeeklyRecurringIsPlainTask() {
	task := suite.createTask(CreateTaskInput{
		Title:            "Weekly report",
		IsRecurring:      true,
		RecurringPattern: models.RecurrenceWeekly,
	})

	suite.False(task.IsTemplate)
	suite.Equal(models.TaskCategoryAdHoc, task.TaskCategory)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	cases := []struct {
		name   string
		viewer models.Viewer
		input  CreateTaskInput
		err    error
	}{
		{"nil viewer", nil, CreateTaskInput{Title: "x"}, ErrViewerRequired},
		{"empty title", suite.creator, CreateTaskInput{Title: "   "}, ErrTitleRequired},
		{"long title", suite.creator, CreateTaskInput{Title: strings.Repeat("a", 256)}, ErrTitleTooLong},
		{"bad priority", suite.creator, CreateTaskInput{Title: "x", Priority: "critical"}, ErrInvalidPriority},
		{"bad status", suite.creator, CreateTaskInput{Title: "x", Status: "archived"}, ErrInvalidStatus},
		{"bad pattern", suite.creator, CreateTaskInput{Title: "x", IsRecurring: true, RecurringPattern: "hourly"}, ErrInvalidRecurrence},
		{"missing pattern", suite.creator, CreateTaskInput{Title: "x", IsRecurring: true}, ErrPatternRequired},
		{"system without creator", models.SystemViewer{}, CreateTaskInput{Title: "x"}, ErrCreatorRequired},
		{"unknown project", suite.creator, CreateTaskInput{Title: "x", ProjectID: strPtr("missing")}, ErrProjectNotFound},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			_, err := suite.service.CreateTask(suite.ctx, tc.viewer, tc.input)
			suite.ErrorIs(err, tc.err)
		})
	}
}

func (suite *TaskServiceTestSuite) TestCreateTask_SystemWithCreator() {
	task, err := suite.service.CreateTask(suite.ctx, models.SystemViewer{}, CreateTaskInput{
		Title:     "Imported",
		CreatorID: "importer",
		Status:    models.TaskStatusDone,
	})

	suite.Require().NoError(err)
	suite.Equal("importer", task.CreatorID)
	suite.Require().NotNil(task.CompletedAt)
	suite.True(suite.now.Equal(*task.CompletedAt))
}

func (suite *TaskServiceTestSuite) TestGetTask_HiddenFromStrangers() {
	task := suite.createTask(CreateTaskInput{Title: "Private", Assignees: []string{"alice"}})

	_, err := suite.service.GetTask(suite.ctx, suite.bob, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	found, err := suite.service.GetTask(suite.ctx, suite.alice, task.ID)
	suite.Require().NoError(err)
	suite.Equal(task.ID, found.ID)

	_, err = suite.service.GetTask(suite.ctx, suite.admin, "missing")
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_CompletedAtFollowsStatus() {
	task := suite.createTask(CreateTaskInput{Title: "Close register", Assignees: []string{"alice"}})

	done := models.TaskStatusDone
	updated, err := suite.service.UpdateTask(suite.ctx, suite.alice, task.ID, UpdateTaskInput{Status: &done})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.CompletedAt)
	suite.True(suite.now.Equal(*updated.CompletedAt))

	todo := models.TaskStatusTodo
	reopened, err := suite.service.UpdateTask(suite.ctx, suite.alice, task.ID, UpdateTaskInput{Status: &todo})
	suite.Require().NoError(err)
	suite.Nil(reopened.CompletedAt)
	suite.Equal(models.TaskStatusTodo, reopened.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_MergePatch() {
	project := &models.Project{Name: "Spring term"}
	suite.Require().NoError(suite.projects.Create(suite.ctx, project))

	due := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	task := suite.createTask(CreateTaskInput{
		Title:       "Draft",
		Description: "keep me",
		DueDate:     &due,
		Labels:      []string{"a"},
	})

	title := "Final"
	high := models.TaskPriorityHigh
	updated, err := suite.service.UpdateTask(suite.ctx, suite.creator, task.ID, UpdateTaskInput{
		Title:        &title,
		Priority:     &high,
		ProjectID:    &project.ID,
		Labels:       []string{"b", "b"},
		ClearDueDate: true,
	})

	suite.Require().NoError(err)
	suite.Equal("Final", updated.Title)
	suite.Equal("keep me", updated.Description)
	suite.Equal(models.TaskPriorityHigh, updated.Priority)
	suite.Equal(project.ID, *updated.ProjectID)
	suite.Equal([]string{"b"}, updated.Labels)
	suite.Nil(updated.DueDate)

	cleared, err := suite.service.UpdateTask(suite.ctx, suite.creator, task.ID, UpdateTaskInput{ClearProject: true})
	suite.Require().NoError(err)
	suite.Nil(cleared.ProjectID)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_Errors() {
	task := suite.createTask(CreateTaskInput{Title: "Draft"})

	empty := ""
	_, err := suite.service.UpdateTask(suite.ctx, suite.creator, task.ID, UpdateTaskInput{Title: &empty})
	suite.ErrorIs(err, ErrTitleEmpty)

	bad := models.TaskStatus("archived")
	_, err = suite.service.UpdateTask(suite.ctx, suite.creator, task.ID, UpdateTaskInput{Status: &bad})
	suite.ErrorIs(err, ErrInvalidStatus)

	_, err = suite.service.UpdateTask(suite.ctx, suite.bob, task.ID, UpdateTaskInput{Title: strPtr("x")})
	suite.ErrorIs(err, ErrTaskNotFound)

	_, err = suite.service.UpdateTask(suite.ctx, suite.creator, task.ID, UpdateTaskInput{ProjectID: strPtr("missing")})
	suite.ErrorIs(err, ErrProjectNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_PurgedDuringUpdateIsNotRecreated() {
	task := suite.createTask(CreateTaskInput{Title: "Short lived"})
	store := repository.NewTaskRepository(suite.db)
	suite.service.taskRepo = &spyTaskRepository{TaskRepository: store, purgeOnUpdate: true}

	_, err := suite.service.UpdateTask(suite.ctx, suite.creator, task.ID, UpdateTaskInput{Title: strPtr("Revived")})
	suite.ErrorIs(err, ErrTaskNotFound)

	_, err = suite.service.AssignUsers(suite.ctx, suite.admin, task.ID, []string{"alice"})
	suite.ErrorIs(err, ErrTaskNotFound)

	_, err = store.FindByID(suite.ctx, task.ID)
	suite.ErrorIs(err, repository.ErrNotFound)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_OnlyCreatorOrAdmin() {
	task := suite.createTask(CreateTaskInput{Title: "Draft", Assignees: []string{"alice"}})

	suite.ErrorIs(suite.service.DeleteTask(suite.ctx, suite.alice, task.ID), ErrNotTaskCreator)
	suite.ErrorIs(suite.service.DeleteTask(suite.ctx, suite.bob, task.ID), ErrTaskNotFound)
	suite.NoError(suite.service.DeleteTask(suite.ctx, suite.admin, task.ID))
	suite.ErrorIs(suite.service.DeleteTask(suite.ctx, suite.admin, task.ID), ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestAssignAndUnassign() {
	task := suite.createTask(CreateTaskInput{Title: "Shared"})

	_, err := suite.service.AssignUsers(suite.ctx, suite.creator, task.ID, nil)
	suite.ErrorIs(err, ErrNoUserIDsProvided)

	assigned, err := suite.service.AssignUsers(suite.ctx, suite.creator, task.ID, []string{"alice", "bob", "alice", "creator"})
	suite.Require().NoError(err)
	suite.Equal([]string{"creator", "alice", "bob"}, assigned.Assignees)

	_, err = suite.service.AssignUsers(suite.ctx, suite.alice, task.ID, []string{"carol"})
	suite.ErrorIs(err, ErrNotTaskCreator)

	remaining, err := suite.service.UnassignUsers(suite.ctx, suite.creator, task.ID, []string{"alice", "nobody"})
	suite.Require().NoError(err)
	suite.Equal([]string{"creator", "bob"}, remaining.Assignees)

	stored, err := suite.service.GetTask(suite.ctx, suite.admin, task.ID)
	suite.Require().NoError(err)
	suite.Equal([]string{"creator", "bob"}, stored.Assignees)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
