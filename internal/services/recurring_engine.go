package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/trainingcenter/task-service/internal/models"
	"github.com/trainingcenter/task-service/internal/repository"
	"github.com/trainingcenter/task-service/internal/utils"
)

// ListTasksInput represents filters for listing tasks.
// Empty slices and nil pointers impose no constraint.
type ListTasksInput struct {
	Viewer           models.Viewer
	Status           []models.TaskStatus
	Priority         []models.TaskPriority
	AssignedTo       []string
	ProjectID        *string
	Labels           []string
	DueFrom          *time.Time
	DueTo            *time.Time
	DueToday         bool
	Overdue          bool
	IncludeTemplates bool
}

// MaintenanceReport summarizes one run of the daily maintenance job
type MaintenanceReport struct {
	DateKey string `json:"date_key"`
	Expired int    `json:"expired"`
	Deleted int    `json:"deleted"`
	Created int    `json:"created"`
}

// ListTasks loads every task, purges expired ones when the viewer may,
// materializes today's instances of daily templates and returns the tasks
// visible to the viewer that match the filters, newest first.
//
// Purge failures are logged and swallowed. Materialization failures are returned.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	if input.Viewer == nil {
		return nil, ErrViewerRequired
	}

	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	now := s.now()
	todayKey := utils.DateKey(now, s.loc)

	live, expired := s.splitExpired(tasks, todayKey)
	if len(expired) > 0 && models.CanPurge(input.Viewer) {
		if err := s.taskRepo.DeleteMany(ctx, expired); err != nil {
			s.log.Error("failed to purge expired tasks", err, map[string]interface{}{
				"count":    len(expired),
				"date_key": todayKey,
			})
		} else {
			s.log.Info("purged expired tasks", len(expired))
		}
	}

	live, _, err = s.materialize(ctx, live, now)
	if err != nil {
		return nil, err
	}

	result := filterTasks(live, input, now, s.loc)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// RunDailyMaintenance purges expired tasks and materializes today's instances
// as the system. Unlike ListTasks, purge failures are returned.
func (s *TaskService) RunDailyMaintenance(ctx context.Context) (MaintenanceReport, error) {
	now := s.now()
	report := MaintenanceReport{DateKey: utils.DateKey(now, s.loc)}

	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load tasks: %w", err)
	}

	live, expired := s.splitExpired(tasks, report.DateKey)
	report.Expired = len(expired)

	var errs []error
	if len(expired) > 0 {
		if err := s.taskRepo.DeleteMany(ctx, expired); err != nil {
			errs = append(errs, fmt.Errorf("failed to purge expired tasks: %w", err))
		} else {
			report.Deleted = len(expired)
		}
	}

	_, created, err := s.materialize(ctx, live, now)
	report.Created = created
	if err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error("daily maintenance failed", err, report)
		return report, err
	}

	s.log.Info("daily maintenance finished", report)
	return report, nil
}

// splitExpired separates done tasks completed before todayKey from the rest.
// Templates never expire.
func (s *TaskService) splitExpired(tasks []models.Task, todayKey string) ([]models.Task, []string) {
	live := make([]models.Task, 0, len(tasks))
	var expired []string

	for _, t := range tasks {
		if s.isExpired(t, todayKey) {
			expired = append(expired, t.ID)
			continue
		}
		live = append(live, t)
	}

	return live, expired
}

func (s *TaskService) isExpired(t models.Task, todayKey string) bool {
	if t.IsTemplate || t.Status != models.TaskStatusDone {
		return false
	}
	return utils.DateKey(t.EffectiveCompletion(), s.loc) < todayKey
}

// materialize creates today's instance for every daily template in working
// that has none yet. Instances are created one at a time with a deterministic
// ID so concurrent callers converge on a single document.
func (s *TaskService) materialize(ctx context.Context, working []models.Task, now time.Time) ([]models.Task, int, error) {
	todayKey := utils.DateKey(now, s.loc)

	existing := make(map[string]struct{})
	for _, t := range working {
		if t.SourceRecurringTaskID != nil && t.RecurrenceDateKey != nil && *t.RecurrenceDateKey == todayKey {
			existing[*t.SourceRecurringTaskID] = struct{}{}
		}
	}

	var templates []models.Task
	for _, t := range working {
		if !t.IsDailyTemplate() {
			continue
		}
		if _, ok := existing[t.ID]; ok {
			continue
		}
		templates = append(templates, t)
	}

	created := 0
	for _, tpl := range templates {
		instance := s.newInstance(tpl, now, todayKey)

		inserted, err := s.taskRepo.CreateIfAbsent(ctx, instance)
		if err != nil {
			return working, created, fmt.Errorf("failed to create instance of template %s: %w", tpl.ID, err)
		}
		if inserted {
			created++
			working = append(working, *instance)
			continue
		}

		// Another caller won the race; use the stored instance.
		stored, err := s.taskRepo.FindByID(ctx, instance.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.log.Warn("instance skipped but not found", tpl.ID, todayKey)
				continue
			}
			return working, created, fmt.Errorf("failed to read instance of template %s: %w", tpl.ID, err)
		}
		working = append(working, *stored)
	}

	if created > 0 {
		s.log.Debug("materialized daily instances", created, todayKey)
	}

	return working, created, nil
}

func (s *TaskService) newInstance(tpl models.Task, now time.Time, todayKey string) *models.Task {
	templateID := tpl.ID
	dateKey := todayKey

	var due *time.Time
	if tpl.DueDate != nil {
		d := utils.OnDay(now, *tpl.DueDate, s.loc)
		due = &d
	}

	instance := &models.Task{
		ID:                    utils.InstanceID(templateID, dateKey),
		Title:                 tpl.Title,
		Description:           tpl.Description,
		DueDate:               due,
		Priority:              tpl.Priority,
		Status:                models.TaskStatusTodo,
		CreatorID:             tpl.CreatorID,
		Assignees:             append([]string(nil), tpl.Assignees...),
		ProjectID:             tpl.ProjectID,
		Labels:                append([]string(nil), tpl.Labels...),
		IsRecurring:           false,
		RecurringPattern:      tpl.RecurringPattern,
		SourceRecurringTaskID: &templateID,
		RecurrenceDateKey:     &dateKey,
		IsTemplate:            false,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	instance.TaskCategory = models.DeriveCategory(*instance)
	return instance
}

// filterTasks drops templates and invisible tasks, then applies the
// remaining predicates conjunctively.
func filterTasks(tasks []models.Task, input ListTasksInput, now time.Time, loc *time.Location) []models.Task {
	todayKey := utils.DateKey(now, loc)
	result := make([]models.Task, 0, len(tasks))

	for _, t := range tasks {
		if t.IsTemplate && !input.IncludeTemplates {
			continue
		}
		if !t.VisibleTo(input.Viewer) {
			continue
		}
		if !matches(t, input, now, todayKey, loc) {
			continue
		}
		result = append(result, t)
	}

	return result
}

func matches(t models.Task, input ListTasksInput, now time.Time, todayKey string, loc *time.Location) bool {
	if len(input.Status) > 0 && !contains(input.Status, t.Status) {
		return false
	}
	if len(input.Priority) > 0 && !contains(input.Priority, t.Priority) {
		return false
	}
	if len(input.AssignedTo) > 0 && !overlaps(input.AssignedTo, t.Assignees) {
		return false
	}
	if input.ProjectID != nil && (t.ProjectID == nil || *t.ProjectID != *input.ProjectID) {
		return false
	}
	if len(input.Labels) > 0 && !overlaps(input.Labels, t.Labels) {
		return false
	}
	if input.DueFrom != nil || input.DueTo != nil {
		if t.DueDate == nil {
			return false
		}
		if input.DueFrom != nil && t.DueDate.Before(*input.DueFrom) {
			return false
		}
		if input.DueTo != nil && t.DueDate.After(*input.DueTo) {
			return false
		}
	}
	if input.DueToday && (t.DueDate == nil || utils.DateKey(*t.DueDate, loc) != todayKey) {
		return false
	}
	if input.Overdue && (t.Status == models.TaskStatusDone || t.DueDate == nil || !t.DueDate.Before(now)) {
		return false
	}
	return true
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func overlaps(want, have []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}
