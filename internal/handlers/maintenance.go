package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trainingcenter/task-service/internal/errors"
	"github.com/trainingcenter/task-service/internal/services"
)

type MaintenanceHandler struct {
	taskService *services.TaskService
}

func NewMaintenanceHandler(taskService *services.TaskService) *MaintenanceHandler {
	return &MaintenanceHandler{taskService: taskService}
}

// RunMaintenance purges expired tasks and creates today's recurring instances on demand
func (h *MaintenanceHandler) RunMaintenance(c *gin.Context) {
	report, err := h.taskService.RunDailyMaintenance(c.Request.Context())
	if err != nil {
		errors.RespondWithError(c, http.StatusInternalServerError,
			errors.NewAPIErrorWithDetails(errors.ErrCodeInternalError, "Maintenance did not complete", report))
		return
	}

	c.JSON(http.StatusOK, report)
}

// Health reports that the process is serving requests
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
