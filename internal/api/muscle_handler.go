package api

import (
	"errors"
	"net/http"

	"github.com/fitlog/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// MuscleHandler holds the muscle service dependency.
type MuscleHandler struct {
	muscleService service.MuscleService
}

// NewMuscleHandler creates a new MuscleHandler.
func NewMuscleHandler(muscleService service.MuscleService) *MuscleHandler {
	return &MuscleHandler{muscleService: muscleService}
}

// MuscleRequest defines the expected JSON for creating or updating a muscle.
type MuscleRequest struct {
	Name    string `json:"name" binding:"required"`
	Upper   bool   `json:"upper"`
	Lower   bool   `json:"lower"`
	Pushing bool   `json:"pushing"`
	Pulling bool   `json:"pulling"`
}

func (h *MuscleHandler) CreateMuscle(c *gin.Context) {
	var req MuscleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	muscle, err := h.muscleService.CreateMuscle(c.Request.Context(), req.Name, req.Upper, req.Lower, req.Pushing, req.Pulling)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMuscleNameTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create muscle")
		}
		return
	}

	c.JSON(http.StatusCreated, muscle)
}

func (h *MuscleHandler) GetMuscles(c *gin.Context) {
	muscles, err := h.muscleService.GetMuscles(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve muscles")
		return
	}
	c.JSON(http.StatusOK, muscles)
}

func (h *MuscleHandler) UpdateMuscle(c *gin.Context) {
	muscleID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req MuscleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	muscle, err := h.muscleService.UpdateMuscle(c.Request.Context(), muscleID, req.Name, req.Upper, req.Lower, req.Pushing, req.Pulling)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMuscleNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrMuscleNameTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update muscle")
		}
		return
	}

	c.JSON(http.StatusOK, muscle)
}

func (h *MuscleHandler) DeleteMuscle(c *gin.Context) {
	muscleID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.muscleService.DeleteMuscle(c.Request.Context(), muscleID); err != nil {
		if errors.Is(err, service.ErrMuscleNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete muscle")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
