package api

import (
	"errors"
	"net/http"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// PlannedSetRequest is one planned set within a workout exercise.
type PlannedSetRequest struct {
	Reps      int  `json:"reps" binding:"min=0"`
	DropSet   bool `json:"dropSet"`
	RestPause bool `json:"restPause"`
}

// WorkoutExerciseRequest references an exercise by hex id with its
// planned sets.
type WorkoutExerciseRequest struct {
	Exercise string              `json:"exercise" binding:"required"`
	Sets     []PlannedSetRequest `json:"sets"`
}

// WorkoutRequest defines the expected JSON for creating or updating a workout.
type WorkoutRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description"`
	Exercises   []WorkoutExerciseRequest `json:"exercises"`
}

func (r WorkoutRequest) toDomainExercises() ([]domain.WorkoutExercise, error) {
	exercises := make([]domain.WorkoutExercise, 0, len(r.Exercises))
	for _, we := range r.Exercises {
		exerciseID, err := primitive.ObjectIDFromHex(we.Exercise)
		if err != nil {
			return nil, err
		}
		sets := make([]domain.PlannedSet, 0, len(we.Sets))
		for _, set := range we.Sets {
			sets = append(sets, domain.PlannedSet{
				Reps:      set.Reps,
				DropSet:   set.DropSet,
				RestPause: set.RestPause,
			})
		}
		exercises = append(exercises, domain.WorkoutExercise{
			ExerciseID: exerciseID,
			Sets:       sets,
		})
	}
	return exercises, nil
}

func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	exercises, err := req.toDomainExercises()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, req.Name, req.Description, exercises)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create workout")
		return
	}

	c.JSON(http.StatusCreated, workout)
}

func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.GetWorkouts(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *WorkoutHandler) GetWorkoutByID(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	workout, err := h.workoutService.GetWorkoutByID(c.Request.Context(), workoutID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve workout")
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercises, err := req.toDomainExercises()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, workoutID, req.Name, req.Description, exercises)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update workout")
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, workoutID); err != nil {
		h.handleServiceError(c, err, "Failed to delete workout")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
