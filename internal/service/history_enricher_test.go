package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHistoryEnricher_Enrich(t *testing.T) {
	userID := primitive.NewObjectID()
	exerciseA := primitive.NewObjectID()
	exerciseB := primitive.NewObjectID()

	session := &domain.WorkoutSession{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Status: domain.SessionCompleted,
		ExercisePerformances: []domain.ExercisePerformance{
			{ExerciseID: exerciseA},
			{ExerciseID: exerciseB},
		},
	}

	completedAt := time.Date(2025, 8, 14, 18, 30, 0, 0, time.UTC)
	priorSets := []domain.PerformedSet{
		{Weight: 80, Reps: 8, Completed: true},
		{Weight: 85, Reps: 6, Completed: true},
	}
	prior := &domain.WorkoutSession{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Status:      domain.SessionCompleted,
		CompletedAt: &completedAt,
		ExercisePerformances: []domain.ExercisePerformance{
			{ExerciseID: exerciseA, Sets: priorSets},
		},
	}

	sessionRepo := &mockSessionRepo{}
	// The session being enriched must never count as its own history.
	sessionRepo.
		On("FindLastCompletedWithExercise", mock.Anything, userID, exerciseA, session.ID).
		Return(prior, nil).Once()
	sessionRepo.
		On("FindLastCompletedWithExercise", mock.Anything, userID, exerciseB, session.ID).
		Return(nil, repository.ErrNotFound).Once()

	enricher := NewHistoryEnricher(sessionRepo)
	history, err := enricher.Enrich(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, history, 2)

	require.NotNil(t, history[0])
	assert.Equal(t, prior.ID, history[0].SessionID)
	assert.Equal(t, completedAt, history[0].Date)
	assert.Equal(t, priorSets, history[0].Sets)

	// No prior completed session for exercise B.
	assert.Nil(t, history[1])

	sessionRepo.AssertExpectations(t)
}

func TestHistoryEnricher_Enrich_EmptySetsEntryOmitted(t *testing.T) {
	userID := primitive.NewObjectID()
	exerciseID := primitive.NewObjectID()

	session := &domain.WorkoutSession{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		ExercisePerformances: []domain.ExercisePerformance{
			{ExerciseID: exerciseID},
		},
	}

	// The qualifying set lives in a duplicate later entry; the first
	// entry for the exercise carries no sets at all.
	completedAt := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	prior := &domain.WorkoutSession{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Status:      domain.SessionCompleted,
		CompletedAt: &completedAt,
		ExercisePerformances: []domain.ExercisePerformance{
			{ExerciseID: exerciseID, Sets: []domain.PerformedSet{}},
			{ExerciseID: exerciseID, Sets: []domain.PerformedSet{{Weight: 100, Reps: 5, Completed: true}}},
		},
	}

	sessionRepo := &mockSessionRepo{}
	sessionRepo.
		On("FindLastCompletedWithExercise", mock.Anything, userID, exerciseID, session.ID).
		Return(prior, nil).Once()

	enricher := NewHistoryEnricher(sessionRepo)
	history, err := enricher.Enrich(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, history, 1)

	// An entry without sets has nothing to show; no block is attached.
	assert.Nil(t, history[0])
	sessionRepo.AssertExpectations(t)
}

func TestHistoryEnricher_Enrich_NoPerformances(t *testing.T) {
	sessionRepo := &mockSessionRepo{}
	enricher := NewHistoryEnricher(sessionRepo)

	history, err := enricher.Enrich(context.Background(), &domain.WorkoutSession{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
	})
	require.NoError(t, err)
	assert.Empty(t, history)
	sessionRepo.AssertNotCalled(t, "FindLastCompletedWithExercise")
}

func TestHistoryEnricher_Enrich_RepoError(t *testing.T) {
	userID := primitive.NewObjectID()
	session := &domain.WorkoutSession{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		ExercisePerformances: []domain.ExercisePerformance{
			{ExerciseID: primitive.NewObjectID()},
		},
	}

	sessionRepo := &mockSessionRepo{}
	sessionRepo.
		On("FindLastCompletedWithExercise", mock.Anything, userID, session.ExercisePerformances[0].ExerciseID, session.ID).
		Return(nil, errors.New("connection reset"))

	enricher := NewHistoryEnricher(sessionRepo)
	_, err := enricher.Enrich(context.Background(), session)
	assert.Error(t, err)
}

func TestHistoryEnricher_EnrichDetail(t *testing.T) {
	userID := primitive.NewObjectID()
	exerciseID := primitive.NewObjectID()

	session := domain.WorkoutSession{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		ExercisePerformances: []domain.ExercisePerformance{
			{ExerciseID: exerciseID},
		},
	}
	detail := &SessionDetail{
		WorkoutSession: session,
		ExercisePerformances: []PerformanceDetail{
			{Exercise: ExerciseDetail{Exercise: domain.Exercise{ID: exerciseID}}},
		},
	}

	completedAt := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)
	prior := &domain.WorkoutSession{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Status:      domain.SessionCompleted,
		CompletedAt: &completedAt,
		ExercisePerformances: []domain.ExercisePerformance{
			{ExerciseID: exerciseID, Sets: []domain.PerformedSet{{Weight: 100, Reps: 5}}},
		},
	}

	sessionRepo := &mockSessionRepo{}
	sessionRepo.
		On("FindLastCompletedWithExercise", mock.Anything, userID, exerciseID, session.ID).
		Return(prior, nil)

	enricher := NewHistoryEnricher(sessionRepo)
	require.NoError(t, enricher.EnrichDetail(context.Background(), detail))

	require.NotNil(t, detail.ExercisePerformances[0].LastPerformance)
	assert.Equal(t, prior.ID, detail.ExercisePerformances[0].LastPerformance.SessionID)
}
