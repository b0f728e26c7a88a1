package api

import (
	"errors"
	"net/http"

	"github.com/fitlog/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ActivityHandler serves the recent-activity dashboard summary.
type ActivityHandler struct {
	activityService *service.RecentActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *service.RecentActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// GetRecentActivity returns the latest session per subscribed program
// and the latest sessions of the most recently trained standalone
// workouts.
func (h *ActivityHandler) GetRecentActivity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	activity, err := h.activityService.RecentActivityFor(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load recent activity")
		return
	}

	c.JSON(http.StatusOK, activity)
}
