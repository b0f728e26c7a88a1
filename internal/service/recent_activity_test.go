package service

import (
	"context"
	"testing"
	"time"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestActivityService(userRepo *mockUserRepo, sessionRepo *mockSessionRepo) (*RecentActivityService, *mockWorkoutRepo, *mockProgramRepo, *mockExerciseRepo, *mockMuscleRepo) {
	muscleRepo := &mockMuscleRepo{}
	exerciseRepo := &mockExerciseRepo{}
	workoutRepo := &mockWorkoutRepo{}
	programRepo := &mockProgramRepo{}
	populater := NewPopulater(muscleRepo, exerciseRepo, workoutRepo, programRepo, nil)
	svc := NewRecentActivityService(userRepo, sessionRepo, populater)
	return svc, workoutRepo, programRepo, exerciseRepo, muscleRepo
}

func TestRecentActivity_EmptyUser(t *testing.T) {
	userID := primitive.NewObjectID()

	userRepo := &mockUserRepo{}
	userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)

	sessionRepo := &mockSessionRepo{}
	sessionRepo.
		On("LatestStandalonePerWorkout", mock.Anything, userID, standaloneActivityLimit).
		Return([]repository.LatestSessionRow{}, nil)

	svc, _, _, _, _ := newTestActivityService(userRepo, sessionRepo)
	activity, err := svc.RecentActivityFor(context.Background(), userID)
	require.NoError(t, err)

	// No subscriptions means no program query at all.
	sessionRepo.AssertNotCalled(t, "LatestPerProgram")
	assert.Empty(t, activity.ProgramSessions)
	assert.Empty(t, activity.StandaloneSessions)
	assert.NotNil(t, activity.ProgramSessions)
	assert.NotNil(t, activity.StandaloneSessions)
}

func TestRecentActivity_UserNotFound(t *testing.T) {
	userID := primitive.NewObjectID()

	userRepo := &mockUserRepo{}
	userRepo.On("GetByID", mock.Anything, userID).Return(nil, repository.ErrNotFound)

	svc, _, _, _, _ := newTestActivityService(userRepo, &mockSessionRepo{})
	_, err := svc.RecentActivityFor(context.Background(), userID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecentActivity_ProgramAndStandaloneNeverMerged(t *testing.T) {
	userID := primitive.NewObjectID()
	programA := primitive.NewObjectID()
	programB := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()

	user := &domain.User{
		ID: userID,
		SubscribedPrograms: []domain.ProgramSubscription{
			{Program: programA},
			{Program: programB},
		},
	}

	now := time.Now().UTC().Truncate(time.Second)
	progIDA := &programA
	progSessionA := domain.WorkoutSession{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		WorkoutID: workoutID,
		ProgramID: progIDA,
		CreatedAt: now,
	}
	progIDB := &programB
	progSessionB := domain.WorkoutSession{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		WorkoutID: workoutID,
		ProgramID: progIDB,
		CreatedAt: now.Add(-48 * time.Hour),
	}
	standaloneSession := domain.WorkoutSession{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		WorkoutID: workoutID,
		CreatedAt: now.Add(-time.Hour),
	}

	userRepo := &mockUserRepo{}
	userRepo.On("GetByID", mock.Anything, userID).Return(user, nil)

	sessionRepo := &mockSessionRepo{}
	// Rows already come back newest first from the aggregation.
	sessionRepo.
		On("LatestPerProgram", mock.Anything, userID, []primitive.ObjectID{programA, programB}).
		Return([]repository.LatestSessionRow{
			{SessionID: progSessionA.ID, CreatedAt: progSessionA.CreatedAt},
			{SessionID: progSessionB.ID, CreatedAt: progSessionB.CreatedAt},
		}, nil)
	sessionRepo.
		On("LatestStandalonePerWorkout", mock.Anything, userID, standaloneActivityLimit).
		Return([]repository.LatestSessionRow{
			{SessionID: standaloneSession.ID, CreatedAt: standaloneSession.CreatedAt},
		}, nil)
	sessionRepo.
		On("GetByIDs", mock.Anything, []primitive.ObjectID{progSessionA.ID, progSessionB.ID}).
		Return([]domain.WorkoutSession{progSessionB, progSessionA}, nil)
	sessionRepo.
		On("GetByIDs", mock.Anything, []primitive.ObjectID{standaloneSession.ID}).
		Return([]domain.WorkoutSession{standaloneSession}, nil)

	svc, workoutRepo, programRepo, exerciseRepo, muscleRepo := newTestActivityService(userRepo, sessionRepo)
	workoutRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Workout{{ID: workoutID, Name: "Push Day"}}, nil)
	programRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Program{{ID: programA}, {ID: programB}}, nil)
	exerciseRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Exercise{}, nil)
	muscleRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.Muscle{}, nil)

	activity, err := svc.RecentActivityFor(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, activity.ProgramSessions, 2)
	require.Len(t, activity.StandaloneSessions, 1)

	// Row order (newest first) survives the batch fetch.
	assert.Equal(t, progSessionA.ID, activity.ProgramSessions[0].ID)
	assert.Equal(t, progSessionB.ID, activity.ProgramSessions[1].ID)
	assert.Equal(t, standaloneSession.ID, activity.StandaloneSessions[0].ID)

	// The standalone list never picks up program sessions, even when a
	// program session is newer than every standalone one.
	for _, sess := range activity.StandaloneSessions {
		assert.Nil(t, sess.ProgramID)
	}
}
