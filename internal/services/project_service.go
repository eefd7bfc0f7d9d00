package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/trainingcenter/task-service/internal/models"
	"github.com/trainingcenter/task-service/internal/repository"
)

var (
	ErrProjectNotFound         = errors.New("project not found")
	ErrInvalidProjectName      = errors.New("project name cannot be empty")
	ErrProjectPermissionDenied = errors.New("only administrators can manage projects")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput represents a partial project update.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// CreateProject creates a new project.
func (s *ProjectService) CreateProject(ctx context.Context, viewer models.Viewer, input CreateProjectInput) (*models.Project, error) {
	if !models.CanViewAll(viewer) {
		return nil, ErrProjectPermissionDenied
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns a page of projects and the total count.
func (s *ProjectService) ListProjects(ctx context.Context, offset, limit int) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a single project.
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProject updates a project's name and description.
func (s *ProjectService) UpdateProject(ctx context.Context, viewer models.Viewer, projectID string, input UpdateProjectInput) (*models.Project, error) {
	if !models.CanViewAll(viewer) {
		return nil, ErrProjectPermissionDenied
	}

	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project. Its tasks are kept without a project.
func (s *ProjectService) DeleteProject(ctx context.Context, viewer models.Viewer, projectID string) error {
	if !models.CanViewAll(viewer) {
		return ErrProjectPermissionDenied
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}
