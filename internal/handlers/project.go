package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trainingcenter/task-service/internal/constants"
	"github.com/trainingcenter/task-service/internal/dto"
	apierrors "github.com/trainingcenter/task-service/internal/errors"
	"github.com/trainingcenter/task-service/internal/middleware"
	"github.com/trainingcenter/task-service/internal/models"
	"github.com/trainingcenter/task-service/internal/services"
	"github.com/trainingcenter/task-service/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListProjects returns a page of projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params.Page, params.Limit, total))
}

// GetProject returns a project loaded by RequireProject middleware
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := c.Get(constants.ContextKeyProject)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project.(models.Project)))
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), viewer, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project's name or description
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), viewer, c.Param("id"), services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and detaches its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), viewer, c.Param("id")); err != nil {
		handleProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

func handleProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrProjectPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectName):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
