package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trainingcenter/task-service/internal/constants"
	apierrors "github.com/trainingcenter/task-service/internal/errors"
	"github.com/trainingcenter/task-service/internal/services"
)

// RequireTaskAccess checks if the viewer can see the task in the :id parameter.
// Invisible tasks are reported as missing to avoid leaking their existence.
func RequireTaskAccess(taskService *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := GetViewer(c)
		if !ok {
			apierrors.AbortWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		task, err := taskService.GetTask(c.Request.Context(), viewer, c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.AbortWithError(c, http.StatusNotFound,
					apierrors.NewAPIError(apierrors.ErrCodeNotFound, "Task not found"))
				return
			}
			apierrors.AbortWithError(c, http.StatusInternalServerError,
				apierrors.NewAPIError(apierrors.ErrCodeInternalError, "Failed to load task"))
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Next()
	}
}
