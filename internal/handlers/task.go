package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trainingcenter/task-service/internal/constants"
	"github.com/trainingcenter/task-service/internal/dto"
	apierrors "github.com/trainingcenter/task-service/internal/errors"
	"github.com/trainingcenter/task-service/internal/middleware"
	"github.com/trainingcenter/task-service/internal/models"
	"github.com/trainingcenter/task-service/internal/services"
	"github.com/trainingcenter/task-service/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	loc         *time.Location
}

// NewTaskHandler creates a TaskHandler. Bare dates in query strings are read in loc.
func NewTaskHandler(taskService *services.TaskService, loc *time.Location) *TaskHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskHandler{
		taskService: taskService,
		loc:         loc,
	}
}

type createTaskRequest struct {
	Title            string                   `json:"title" binding:"required"`
	Description      string                   `json:"description"`
	DueDate          *time.Time               `json:"due_date"`
	Priority         models.TaskPriority      `json:"priority"`
	Status           models.TaskStatus        `json:"status"`
	Assignees        []string                 `json:"assignees"`
	ProjectID        *string                  `json:"project_id"`
	Labels           []string                 `json:"labels"`
	IsRecurring      bool                     `json:"is_recurring"`
	RecurringPattern models.RecurrencePattern `json:"recurring_pattern"`
	ReminderAt       *time.Time               `json:"reminder_at"`
}

type updateTaskRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	DueDate       *time.Time           `json:"due_date"`
	ClearDueDate  bool                 `json:"clear_due_date"`
	Priority      *models.TaskPriority `json:"priority"`
	Status        *models.TaskStatus   `json:"status"`
	ProjectID     *string              `json:"project_id"`
	ClearProject  bool                 `json:"clear_project"`
	Labels        []string             `json:"labels"`
	ReminderAt    *time.Time           `json:"reminder_at"`
	ClearReminder bool                 `json:"clear_reminder"`
}

type assignUsersRequest struct {
	UserIDs []string `json:"user_ids" binding:"required"`
}

// ListTasks returns the tasks visible to the current viewer, newest first.
// Listing also purges expired tasks and creates today's recurring instances.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	input, err := h.parseListQuery(c)
	if err != nil {
		apierrors.InvalidFormat(c, err.Error())
		return
	}
	input.Viewer = viewer

	tasks, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	start, end := params.Bounds(len(tasks))

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks[start:end], params.Page, params.Limit, int64(len(tasks))))
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskInterface, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		apierrors.InternalError(c, "Invalid task data")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a new task, or a template when it recurs daily
func (h *TaskHandler) CreateTask(c *gin.Context) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), viewer, services.CreateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		DueDate:          req.DueDate,
		Priority:         req.Priority,
		Status:           req.Status,
		Assignees:        req.Assignees,
		ProjectID:        req.ProjectID,
		Labels:           req.Labels,
		IsRecurring:      req.IsRecurring,
		RecurringPattern: req.RecurringPattern,
		ReminderAt:       req.ReminderAt,
	})
	if err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), viewer, c.Param("id"), services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		ClearDueDate:  req.ClearDueDate,
		Priority:      req.Priority,
		Status:        req.Status,
		ProjectID:     req.ProjectID,
		ClearProject:  req.ClearProject,
		Labels:        req.Labels,
		ReminderAt:    req.ReminderAt,
		ClearReminder: req.ClearReminder,
	})
	if err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), viewer, c.Param("id")); err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// AssignTask assigns users to a task
func (h *TaskHandler) AssignTask(c *gin.Context) {
	h.changeAssignees(c, h.taskService.AssignUsers)
}

// UnassignTask removes users from a task
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	h.changeAssignees(c, h.taskService.UnassignUsers)
}

func (h *TaskHandler) changeAssignees(c *gin.Context, change func(context.Context, models.Viewer, string, []string) (*models.Task, error)) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req assignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := change(c.Request.Context(), viewer, c.Param("id"), req.UserIDs)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// parseListQuery reads list filters from the query string
func (h *TaskHandler) parseListQuery(c *gin.Context) (services.ListTasksInput, error) {
	var input services.ListTasksInput

	for _, raw := range splitList(c.Query("status")) {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			return input, fmt.Errorf("invalid status %q", raw)
		}
		input.Status = append(input.Status, status)
	}
	for _, raw := range splitList(c.Query("priority")) {
		priority := models.TaskPriority(raw)
		if !priority.Valid() {
			return input, fmt.Errorf("invalid priority %q", raw)
		}
		input.Priority = append(input.Priority, priority)
	}
	input.AssignedTo = splitList(c.Query("assigned_to"))
	input.Labels = splitList(c.Query("labels"))

	if projectID := strings.TrimSpace(c.Query("project_id")); projectID != "" {
		input.ProjectID = &projectID
	}

	if raw := c.Query("due_from"); raw != "" {
		from, err := utils.ParseDateOrTime(raw, h.loc, false)
		if err != nil {
			return input, err
		}
		input.DueFrom = &from
	}
	if raw := c.Query("due_to"); raw != "" {
		to, err := utils.ParseDateOrTime(raw, h.loc, true)
		if err != nil {
			return input, err
		}
		input.DueTo = &to
	}

	var err error
	if input.DueToday, err = queryBool(c, "today"); err != nil {
		return input, err
	}
	if input.Overdue, err = queryBool(c, "overdue"); err != nil {
		return input, err
	}
	if input.IncludeTemplates, err = queryBool(c, "include_templates"); err != nil {
		return input, err
	}

	return input, nil
}

// handleTaskError maps service errors to API responses
func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrViewerRequired):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.BadRequest(c, "Project not found")
	case errors.Is(err, services.ErrNotTaskCreator),
		errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidRecurrence),
		errors.Is(err, services.ErrPatternRequired),
		errors.Is(err, services.ErrCreatorRequired),
		errors.Is(err, services.ErrNoUserIDsProvided):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func queryBool(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return v, nil
}
