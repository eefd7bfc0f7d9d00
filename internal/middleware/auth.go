package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/trainingcenter/task-service/internal/constants"
	apierrors "github.com/trainingcenter/task-service/internal/errors"
	"github.com/trainingcenter/task-service/internal/models"
)

// RequireAuth checks that the session carries a user and stores the viewer in context.
// The session is written by the authentication service that shares the store.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		userID, ok := session.Get(constants.ContextKeyUserID).(string)
		if !ok || userID == "" {
			apierrors.AbortWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		role, _ := session.Get(constants.ContextKeyUserRole).(string)

		viewer := models.UserViewer{ID: userID, Role: models.Role(role)}

		// Store viewer in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyViewer, viewer)
		c.Next()
	}
}

// RequireAdmin only lets administrators through. It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := GetViewer(c)
		if !ok {
			apierrors.AbortWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if !models.CanViewAll(viewer) {
			apierrors.AbortWithError(c, http.StatusForbidden,
				apierrors.NewAPIError(apierrors.ErrCodeForbidden, "Administrator role required"))
			return
		}
		c.Next()
	}
}

// GetViewer retrieves the current viewer from context
func GetViewer(c *gin.Context) (models.Viewer, bool) {
	value, exists := c.Get(constants.ContextKeyViewer)
	if !exists {
		return nil, false
	}

	switch v := value.(type) {
	case models.UserViewer:
		return v, true
	case models.SystemViewer:
		return v, true
	default:
		return nil, false
	}
}
