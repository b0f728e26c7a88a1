package api

import (
	"errors"
	"net/http"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler holds the program service dependency.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// ScheduleItemRequest is one day of a program schedule.
type ScheduleItemRequest struct {
	Type    string  `json:"type" binding:"required,oneof=workout rest"`
	Workout *string `json:"workout"`
}

// ProgramRequest defines the expected JSON for creating or updating a program.
type ProgramRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Schedule    []ScheduleItemRequest `json:"schedule"`
}

func (r ProgramRequest) toDomainSchedule() ([]domain.ScheduleItem, error) {
	schedule := make([]domain.ScheduleItem, 0, len(r.Schedule))
	for _, item := range r.Schedule {
		si := domain.ScheduleItem{Type: domain.ScheduleItemType(item.Type)}
		if item.Workout != nil {
			workoutID, err := primitive.ObjectIDFromHex(*item.Workout)
			if err != nil {
				return nil, err
			}
			si.Workout = &workoutID
		}
		schedule = append(schedule, si)
	}
	return schedule, nil
}

func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	schedule, err := req.toDomainSchedule()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format in schedule.")
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), userID, req.Name, req.Description, schedule)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create program")
		return
	}

	c.JSON(http.StatusCreated, program)
}

func (h *ProgramHandler) GetPrograms(c *gin.Context) {
	programs, err := h.programService.GetPrograms(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs")
		return
	}
	c.JSON(http.StatusOK, programs)
}

func (h *ProgramHandler) GetProgramByID(c *gin.Context) {
	programID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	program, err := h.programService.GetProgramByID(c.Request.Context(), programID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve program")
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	programID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	schedule, err := req.toDomainSchedule()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format in schedule.")
		return
	}

	program, err := h.programService.UpdateProgram(c.Request.Context(), userID, programID, req.Name, req.Description, schedule)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update program")
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	programID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.programService.DeleteProgram(c.Request.Context(), userID, programID); err != nil {
		h.handleServiceError(c, err, "Failed to delete program")
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscribe adds the program to the caller's followed programs.
func (h *ProgramHandler) Subscribe(c *gin.Context) {
	programID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.programService.Subscribe(c.Request.Context(), userID, programID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to subscribe to program")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// Unsubscribe removes the program from the caller's followed programs.
func (h *ProgramHandler) Unsubscribe(c *gin.Context) {
	programID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.programService.Unsubscribe(c.Request.Context(), userID, programID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to unsubscribe from program")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *ProgramHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied),
		errors.Is(err, service.ErrWorkoutAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, domain.ErrScheduleItemInvalidType),
		errors.Is(err, domain.ErrScheduleItemMissingWorkout),
		errors.Is(err, domain.ErrScheduleItemRestHasWorkout):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
