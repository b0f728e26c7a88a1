package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/metrics"
	"github.com/fitlog/backend/internal/repository"
	"github.com/fitlog/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler holds the session service, the history enricher and
// the metrics manager.
type SessionHandler struct {
	sessionService service.SessionService
	enricher       *service.HistoryEnricher
	metrics        *metrics.Manager
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, enricher *service.HistoryEnricher, m *metrics.Manager) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		enricher:       enricher,
		metrics:        m,
	}
}

// CreateSessionRequest starts a session from a workout template,
// optionally pinned to a program day.
type CreateSessionRequest struct {
	Workout    string  `json:"workout" binding:"required"`
	Program    *string `json:"program"`
	ProgramDay *int    `json:"programDay"`
}

// PerformedSetRequest is one actually performed set.
type PerformedSetRequest struct {
	Weight    float64 `json:"weight" binding:"min=0"`
	Reps      int     `json:"reps" binding:"min=0"`
	DropSet   bool    `json:"dropSet"`
	RestPause bool    `json:"restPause"`
	Completed bool    `json:"completed"`
	Notes     string  `json:"notes"`
}

// PerformanceRequest is one exercise's performed sets.
type PerformanceRequest struct {
	Exercise string                `json:"exercise" binding:"required"`
	Sets     []PerformedSetRequest `json:"sets"`
}

// UpdateSessionRequest is a partial session update; absent fields are
// left untouched.
type UpdateSessionRequest struct {
	ExercisePerformances []PerformanceRequest `json:"exercisePerformances"`
	Notes                *string              `json:"notes"`
	Status               *string              `json:"status"`
	Duration             *int                 `json:"duration"`
	CompletedAt          *time.Time           `json:"completedAt"`
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(req.Workout)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	var programID *primitive.ObjectID
	if req.Program != nil {
		id, err := primitive.ObjectIDFromHex(*req.Program)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
			return
		}
		programID = &id
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), userID, workoutID, programID, req.ProgramDay)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create workout session")
		return
	}

	h.metrics.CounterSessionsStarted.Inc()
	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) GetSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.GetSessions(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSessionByID returns one session. With ?history=true, each exercise
// also carries the user's most recent prior completed performance.
func (h *SessionHandler) GetSessionByID(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSessionByID(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve workout session")
		return
	}

	if c.Query("history") == "true" {
		h.metrics.CounterHistoryLookups.Add(float64(len(session.ExercisePerformances)))
		if err := h.enricher.EnrichDetail(c.Request.Context(), session); err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to load exercise history")
			return
		}
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) UpdateSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	update, err := req.toSessionUpdate()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format in performances.")
		return
	}

	session, err := h.sessionService.UpdateSession(c.Request.Context(), userID, sessionID, update)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update workout session")
		return
	}

	if update.Status != nil && *update.Status == domain.SessionCompleted {
		h.metrics.CounterSessionsCompleted.Inc()
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		h.handleServiceError(c, err, "Failed to delete workout session")
		return
	}
	c.Status(http.StatusNoContent)
}

func (r UpdateSessionRequest) toSessionUpdate() (repository.SessionUpdate, error) {
	update := repository.SessionUpdate{
		Notes:       r.Notes,
		Duration:    r.Duration,
		CompletedAt: r.CompletedAt,
	}

	if r.Status != nil {
		status := domain.SessionStatus(*r.Status)
		update.Status = &status
	}

	if r.ExercisePerformances != nil {
		performances := make([]domain.ExercisePerformance, 0, len(r.ExercisePerformances))
		for _, perf := range r.ExercisePerformances {
			exerciseID, err := primitive.ObjectIDFromHex(perf.Exercise)
			if err != nil {
				return repository.SessionUpdate{}, err
			}
			sets := make([]domain.PerformedSet, 0, len(perf.Sets))
			for _, set := range perf.Sets {
				sets = append(sets, domain.PerformedSet{
					Weight:    set.Weight,
					Reps:      set.Reps,
					DropSet:   set.DropSet,
					RestPause: set.RestPause,
					Completed: set.Completed,
					Notes:     set.Notes,
				})
			}
			performances = append(performances, domain.ExercisePerformance{
				ExerciseID: exerciseID,
				Sets:       sets,
			})
		}
		update.ExercisePerformances = performances
	}

	return update, nil
}

func (h *SessionHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrProgramNotFound),
		errors.Is(err, service.ErrInvalidProgramDay),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
