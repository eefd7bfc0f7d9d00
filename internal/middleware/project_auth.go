package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trainingcenter/task-service/internal/constants"
	apierrors "github.com/trainingcenter/task-service/internal/errors"
	"github.com/trainingcenter/task-service/internal/services"
)

// RequireProject loads the project in the :id parameter into context
func RequireProject(projectService *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := projectService.GetProject(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.AbortWithError(c, http.StatusNotFound,
					apierrors.NewAPIError(apierrors.ErrCodeNotFound, "Project not found"))
				return
			}
			apierrors.AbortWithError(c, http.StatusInternalServerError,
				apierrors.NewAPIError(apierrors.ErrCodeInternalError, "Failed to load project"))
			return
		}

		c.Set(constants.ContextKeyProject, *project)
		c.Next()
	}
}
