package repository

import (
	"context"
	"errors"

	"github.com/trainingcenter/task-service/internal/models"
)

// ErrNotFound is returned by every backend when a document does not exist.
var ErrNotFound = errors.New("repository: document not found")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// ListAll returns every task ordered by creation time, newest first
	ListAll(ctx context.Context) ([]models.Task, error)

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// Create inserts a new task, assigning an ID when empty
	Create(ctx context.Context, task *models.Task) error

	// CreateIfAbsent inserts task unless a document with the same ID exists.
	// It reports whether the task was inserted.
	CreateIfAbsent(ctx context.Context, task *models.Task) (bool, error)

	// Update overwrites the stored task with the given one
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a single task
	Delete(ctx context.Context, id string) error

	// DeleteMany removes the given tasks in one operation
	DeleteMany(ctx context.Context, ids []string) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id string) (*models.Project, error)

	// List returns projects ordered by name with the total count
	List(ctx context.Context, offset, limit int) ([]models.Project, int64, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project and clears it from the tasks that reference it
	Delete(ctx context.Context, id string) error
}
