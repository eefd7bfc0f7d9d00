package dto

import (
	"time"

	"github.com/trainingcenter/task-service/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                    string                   `json:"id"`
	Title                 string                   `json:"title"`
	Description           string                   `json:"description"`
	Status                models.TaskStatus        `json:"status"`
	Priority              models.TaskPriority      `json:"priority"`
	DueDate               *time.Time               `json:"due_date"`
	CreatorID             string                   `json:"creator_id"`
	Assignees             []string                 `json:"assignees"`
	ProjectID             *string                  `json:"project_id"`
	Labels                []string                 `json:"labels"`
	IsRecurring           bool                     `json:"is_recurring"`
	RecurringPattern      models.RecurrencePattern `json:"recurring_pattern,omitempty"`
	ReminderAt            *time.Time               `json:"reminder_at,omitempty"`
	CompletedAt           *time.Time               `json:"completed_at,omitempty"`
	SourceRecurringTaskID *string                  `json:"source_recurring_task_id,omitempty"`
	RecurrenceDateKey     *string                  `json:"recurrence_date_key,omitempty"`
	IsTemplate            bool                     `json:"is_template"`
	TaskCategory          models.TaskCategory      `json:"task_category"`
	CreatedAt             time.Time                `json:"created_at"`
	UpdatedAt             time.Time                `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                    task.ID,
		Title:                 task.Title,
		Description:           task.Description,
		Status:                task.Status,
		Priority:              task.Priority,
		DueDate:               task.DueDate,
		CreatorID:             task.CreatorID,
		Assignees:             task.Assignees,
		ProjectID:             task.ProjectID,
		Labels:                task.Labels,
		IsRecurring:           task.IsRecurring,
		RecurringPattern:      task.RecurringPattern,
		ReminderAt:            task.ReminderAt,
		CompletedAt:           task.CompletedAt,
		SourceRecurringTaskID: task.SourceRecurringTaskID,
		RecurrenceDateKey:     task.RecurrenceDateKey,
		IsTemplate:            task.IsTemplate,
		TaskCategory:          task.TaskCategory,
		CreatedAt:             task.CreatedAt,
		UpdatedAt:             task.UpdatedAt,
	}

	// Always render lists as arrays
	if dto.Assignees == nil {
		dto.Assignees = []string{}
	}
	if dto.Labels == nil {
		dto.Labels = []string{}
	}

	return dto
}

// ToTaskListResponse converts one page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}

func totalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		pages++
	}
	return pages
}
