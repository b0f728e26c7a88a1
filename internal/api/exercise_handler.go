package api

import (
	"errors"
	"net/http"

	"github.com/fitlog/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// ExerciseRequest defines the expected JSON for creating or updating an
// exercise. Muscles are referenced by hex id.
type ExerciseRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Muscles     []string `json:"muscles"`
}

func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	muscleIDs, err := parseObjectIDs(req.Muscles)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid muscle ID format.")
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, req.Name, req.Description, muscleIDs)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create exercise")
		return
	}

	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	exercises, err := h.exerciseService.GetExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises")
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *ExerciseHandler) GetExerciseByID(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve exercise")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	muscleIDs, err := parseObjectIDs(req.Muscles)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid muscle ID format.")
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, exerciseID, req.Name, req.Description, muscleIDs)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update exercise")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, exerciseID); err != nil {
		h.handleServiceError(c, err, "Failed to delete exercise")
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadMedia attaches a demonstration video or image to an exercise.
// Expects a multipart form with a single "file" part.
func (h *ExerciseHandler) UploadMedia(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "A 'file' form field is required.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	exercise, err := h.exerciseService.UploadMedia(
		c.Request.Context(),
		userID,
		exerciseID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMediaType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.handleServiceError(c, err, "Failed to upload media")
		return
	}

	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrMuscleNotFound):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// parseObjectIDs converts hex ids to ObjectIDs, failing on the first
// malformed entry.
func parseObjectIDs(hexIDs []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hex := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
