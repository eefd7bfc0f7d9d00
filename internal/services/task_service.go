package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trainingcenter/task-service/internal/constants"
	"github.com/trainingcenter/task-service/internal/logger"
	"github.com/trainingcenter/task-service/internal/models"
	"github.com/trainingcenter/task-service/internal/repository"
)

var (
	ErrViewerRequired       = errors.New("viewer context is required")
	ErrCreatorRequired      = errors.New("creator ID is required for system-created tasks")
	ErrTaskNotFound         = errors.New("task not found")
	ErrNotTaskCreator       = errors.New("only the task creator can perform this action")
	ErrTaskPermissionDenied = errors.New("user does not have permission to modify this task")
	ErrNoUserIDsProvided    = errors.New("at least one user ID is required")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleEmpty           = errors.New("title cannot be empty")
	ErrTitleTooLong         = fmt.Errorf("title cannot exceed %d characters", constants.MaxTitleLength)
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrInvalidPriority      = errors.New("invalid task priority")
	ErrInvalidRecurrence    = errors.New("invalid recurring pattern")
	ErrPatternRequired      = errors.New("recurring tasks need a recurring pattern")
)

// TaskService handles task business logic, including the recurring task engine
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	log         logger.Logger
	loc         *time.Location
	now         func() time.Time
}

// NewTaskService creates a new TaskService. Date keys are computed in loc.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, log logger.Logger, loc *time.Location) *TaskService {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		log:         log,
		loc:         loc,
		now:         time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title            string
	Description      string
	DueDate          *time.Time
	Priority         models.TaskPriority
	Status           models.TaskStatus
	CreatorID        string
	Assignees        []string
	ProjectID        *string
	Labels           []string
	IsRecurring      bool
	RecurringPattern models.RecurrencePattern
	ReminderAt       *time.Time
}

// UpdateTaskInput represents a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	ClearDueDate  bool
	Priority      *models.TaskPriority
	Status        *models.TaskStatus
	ProjectID     *string
	ClearProject  bool
	Labels        []string
	ReminderAt    *time.Time
	ClearReminder bool
}

// CreateTask validates input and stores a new task. A daily recurring task
// is stored as a template; its instances appear on the next read.
func (s *TaskService) CreateTask(ctx context.Context, viewer models.Viewer, input CreateTaskInput) (*models.Task, error) {
	if viewer == nil {
		return nil, ErrViewerRequired
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !input.RecurringPattern.Valid() {
		return nil, ErrInvalidRecurrence
	}
	if input.IsRecurring && input.RecurringPattern == models.RecurrenceNone {
		return nil, ErrPatternRequired
	}
	if !input.IsRecurring {
		input.RecurringPattern = models.RecurrenceNone
	}

	creatorID := models.ViewerID(viewer)
	if creatorID == "" {
		creatorID = strings.TrimSpace(input.CreatorID)
	}
	if creatorID == "" {
		return nil, ErrCreatorRequired
	}

	if err := s.ensureProjectExists(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	assignees := uniqueStrings(input.Assignees)
	if len(assignees) == 0 {
		assignees = []string{creatorID}
	}

	now := s.now()
	task := &models.Task{
		Title:            title,
		Description:      input.Description,
		DueDate:          input.DueDate,
		Priority:         input.Priority,
		Status:           input.Status,
		CreatorID:        creatorID,
		Assignees:        assignees,
		ProjectID:        input.ProjectID,
		Labels:           uniqueStrings(input.Labels),
		IsRecurring:      input.IsRecurring,
		RecurringPattern: input.RecurringPattern,
		ReminderAt:       input.ReminderAt,
		IsTemplate:       input.IsRecurring && input.RecurringPattern == models.RecurrenceDaily,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if task.Status == models.TaskStatusDone {
		task.CompletedAt = &now
	}
	task.TaskCategory = models.DeriveCategory(*task)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task the viewer is allowed to see
func (s *TaskService) GetTask(ctx context.Context, viewer models.Viewer, taskID string) (*models.Task, error) {
	if viewer == nil {
		return nil, ErrViewerRequired
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.VisibleTo(viewer) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// UpdateTask applies a partial update. Any status may move to any other status.
func (s *TaskService) UpdateTask(ctx context.Context, viewer models.Viewer, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, viewer, taskID)
	if err != nil {
		return nil, err
	}
	if !models.CanManage(viewer, *task) {
		return nil, ErrTaskPermissionDenied
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		if len(title) > constants.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearProject {
		task.ProjectID = nil
	} else if input.ProjectID != nil {
		if err := s.ensureProjectExists(ctx, input.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = input.ProjectID
	}
	if input.Labels != nil {
		task.Labels = uniqueStrings(input.Labels)
	}
	if input.ClearReminder {
		task.ReminderAt = nil
	} else if input.ReminderAt != nil {
		task.ReminderAt = input.ReminderAt
	}

	now := s.now()
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		s.applyStatus(task, *input.Status, now)
	}

	task.TaskCategory = models.DeriveCategory(*task)
	task.UpdatedAt = now

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task if the viewer created it or is an administrator
func (s *TaskService) DeleteTask(ctx context.Context, viewer models.Viewer, taskID string) error {
	task, err := s.GetTask(ctx, viewer, taskID)
	if err != nil {
		return err
	}
	if !models.IsOwner(viewer, *task) {
		return ErrNotTaskCreator
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignUsers adds users to the task's assignee list
func (s *TaskService) AssignUsers(ctx context.Context, viewer models.Viewer, taskID string, userIDs []string) (*models.Task, error) {
	ids := uniqueStrings(userIDs)
	if len(ids) == 0 {
		return nil, ErrNoUserIDsProvided
	}

	task, err := s.ownedTask(ctx, viewer, taskID)
	if err != nil {
		return nil, err
	}

	task.Assignees = uniqueStrings(append(task.Assignees, ids...))
	task.UpdatedAt = s.now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to assign users: %w", err)
	}

	return task, nil
}

// UnassignUsers removes users from the task's assignee list
func (s *TaskService) UnassignUsers(ctx context.Context, viewer models.Viewer, taskID string, userIDs []string) (*models.Task, error) {
	ids := uniqueStrings(userIDs)
	if len(ids) == 0 {
		return nil, ErrNoUserIDsProvided
	}

	task, err := s.ownedTask(ctx, viewer, taskID)
	if err != nil {
		return nil, err
	}

	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}
	kept := make([]string, 0, len(task.Assignees))
	for _, a := range task.Assignees {
		if _, ok := remove[a]; !ok {
			kept = append(kept, a)
		}
	}
	task.Assignees = kept
	task.UpdatedAt = s.now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to unassign users: %w", err)
	}

	return task, nil
}

// applyStatus changes the status and keeps CompletedAt in step with it
func (s *TaskService) applyStatus(task *models.Task, status models.TaskStatus, now time.Time) {
	if status == models.TaskStatusDone {
		if task.Status != models.TaskStatusDone || task.CompletedAt == nil {
			task.CompletedAt = &now
		}
	} else {
		task.CompletedAt = nil
	}
	task.Status = status
}

func (s *TaskService) ownedTask(ctx context.Context, viewer models.Viewer, taskID string) (*models.Task, error) {
	task, err := s.GetTask(ctx, viewer, taskID)
	if err != nil {
		return nil, err
	}
	if !models.IsOwner(viewer, *task) {
		return nil, ErrNotTaskCreator
	}
	return task, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureProjectExists verifies that a referenced project exists
func (s *TaskService) ensureProjectExists(ctx context.Context, projectID *string) error {
	if projectID == nil || s.projectRepo == nil {
		return nil
	}
	if _, err := s.projectRepo.FindByID(ctx, *projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to verify project: %w", err)
	}
	return nil
}

// uniqueStrings trims, drops empty values and removes duplicates, keeping order
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
