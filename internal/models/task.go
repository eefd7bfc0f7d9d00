package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type RecurrencePattern string

const (
	RecurrenceNone    RecurrencePattern = ""
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceYearly  RecurrencePattern = "yearly"
)

// Valid reports whether p is a known pattern. The empty pattern is valid.
func (p RecurrencePattern) Valid() bool {
	switch p {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

type TaskCategory string

const (
	TaskCategoryRecurringDaily TaskCategory = "recurring_daily"
	TaskCategoryAdHoc          TaskCategory = "ad_hoc"
)

type Task struct {
	ID                    string            `gorm:"primarykey;type:varchar(64)" json:"id" bson:"_id"`
	Title                 string            `gorm:"type:varchar(255);not null" json:"title" bson:"title"`
	Description           string            `gorm:"type:text" json:"description" bson:"description"`
	DueDate               *time.Time        `json:"due_date" bson:"due_date,omitempty"`
	Priority              TaskPriority      `gorm:"type:varchar(20);not null;default:'medium'" json:"priority" bson:"priority"`
	Status                TaskStatus        `gorm:"type:varchar(20);not null;default:'todo'" json:"status" bson:"status"`
	CreatorID             string            `gorm:"type:varchar(64);not null" json:"creator_id" bson:"creator_id"`
	Assignees             []string          `gorm:"type:text;serializer:json" json:"assignees" bson:"assignees"`
	ProjectID             *string           `gorm:"type:varchar(64)" json:"project_id" bson:"project_id,omitempty"`
	Labels                []string          `gorm:"type:text;serializer:json" json:"labels" bson:"labels"`
	IsRecurring           bool              `gorm:"not null;default:false" json:"is_recurring" bson:"is_recurring"`
	RecurringPattern      RecurrencePattern `gorm:"type:varchar(20)" json:"recurring_pattern,omitempty" bson:"recurring_pattern,omitempty"`
	ReminderAt            *time.Time        `json:"reminder_at" bson:"reminder_at,omitempty"`
	CompletedAt           *time.Time        `json:"completed_at" bson:"completed_at,omitempty"`
	SourceRecurringTaskID *string           `gorm:"type:varchar(64);uniqueIndex:idx_tasks_source_day" json:"source_recurring_task_id,omitempty" bson:"source_recurring_task_id,omitempty"`
	RecurrenceDateKey     *string           `gorm:"type:varchar(10);uniqueIndex:idx_tasks_source_day" json:"recurrence_date_key,omitempty" bson:"recurrence_date_key,omitempty"`
	IsTemplate            bool              `gorm:"not null;default:false" json:"is_template" bson:"is_template"`
	TaskCategory          TaskCategory      `gorm:"type:varchar(20);not null;default:'ad_hoc'" json:"task_category" bson:"task_category"`
	CreatedAt             time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at" bson:"updated_at"`
}

// DeriveCategory computes the category of a task from its recurrence settings.
// Instances generated from a daily template are recurring_daily even though
// they are not recurring themselves.
func DeriveCategory(t Task) TaskCategory {
	if t.IsRecurring && t.RecurringPattern == RecurrenceDaily {
		return TaskCategoryRecurringDaily
	}
	if t.SourceRecurringTaskID != nil && t.RecurringPattern == RecurrenceDaily {
		return TaskCategoryRecurringDaily
	}
	return TaskCategoryAdHoc
}

// IsDailyTemplate reports whether t is a template that generates one instance per day.
func (t Task) IsDailyTemplate() bool {
	return t.IsTemplate && t.IsRecurring && t.RecurringPattern == RecurrenceDaily
}

// EffectiveCompletion returns the moment used to decide whether a done task
// has expired: completion time, else last update, else creation.
func (t Task) EffectiveCompletion() time.Time {
	if t.CompletedAt != nil && !t.CompletedAt.IsZero() {
		return *t.CompletedAt
	}
	if !t.UpdatedAt.IsZero() {
		return t.UpdatedAt
	}
	return t.CreatedAt
}

// IsAssignedTo reports whether userID is one of the task's assignees.
func (t Task) IsAssignedTo(userID string) bool {
	for _, a := range t.Assignees {
		if a == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether v may read the task.
func (t Task) VisibleTo(v Viewer) bool {
	if CanViewAll(v) {
		return true
	}
	u, ok := v.(UserViewer)
	if !ok {
		return false
	}
	return t.CreatorID == u.ID || t.IsAssignedTo(u.ID)
}
