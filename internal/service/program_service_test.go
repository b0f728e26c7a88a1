package service

import (
	"context"
	"testing"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProgramService_CreateValidatesScheduleWorkouts(t *testing.T) {
	userID := primitive.NewObjectID()
	knownWorkout := primitive.NewObjectID()
	unknownWorkout := primitive.NewObjectID()

	workoutRepo := &mockWorkoutRepo{}
	workoutRepo.
		On("GetByIDs", mock.Anything, mock.Anything).
		Return([]domain.Workout{{ID: knownWorkout, UserID: userID}}, nil)

	svc := NewProgramService(&mockProgramRepo{}, workoutRepo, &mockUserRepo{})

	_, err := svc.CreateProgram(context.Background(), userID, "PPL", "", []domain.ScheduleItem{
		{Type: domain.ScheduleItemWorkout, Workout: &knownWorkout},
		{Type: domain.ScheduleItemWorkout, Workout: &unknownWorkout},
	})
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestProgramService_CreateRejectsForeignWorkout(t *testing.T) {
	userID := primitive.NewObjectID()
	foreignWorkout := primitive.NewObjectID()

	workoutRepo := &mockWorkoutRepo{}
	workoutRepo.
		On("GetByIDs", mock.Anything, mock.Anything).
		Return([]domain.Workout{{ID: foreignWorkout, UserID: primitive.NewObjectID()}}, nil)

	svc := NewProgramService(&mockProgramRepo{}, workoutRepo, &mockUserRepo{})

	_, err := svc.CreateProgram(context.Background(), userID, "PPL", "", []domain.ScheduleItem{
		{Type: domain.ScheduleItemWorkout, Workout: &foreignWorkout},
	})
	assert.ErrorIs(t, err, ErrWorkoutAccessDenied)
}

func TestProgramService_CreateRejectsInvalidSchedule(t *testing.T) {
	svc := NewProgramService(&mockProgramRepo{}, &mockWorkoutRepo{}, &mockUserRepo{})

	_, err := svc.CreateProgram(context.Background(), primitive.NewObjectID(), "PPL", "", []domain.ScheduleItem{
		{Type: domain.ScheduleItemWorkout},
	})
	assert.ErrorIs(t, err, domain.ErrScheduleItemMissingWorkout)
}

func TestProgramService_Subscribe(t *testing.T) {
	userID := primitive.NewObjectID()
	programID := primitive.NewObjectID()

	programRepo := &mockProgramRepo{}
	programRepo.On("GetByID", mock.Anything, programID).Return(&domain.Program{ID: programID}, nil)

	userRepo := &mockUserRepo{}
	userRepo.On("AddSubscription", mock.Anything, userID, programID).Return(nil)
	userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{
		ID:                 userID,
		SubscribedPrograms: []domain.ProgramSubscription{{Program: programID}},
	}, nil)

	svc := NewProgramService(programRepo, &mockWorkoutRepo{}, userRepo)
	user, err := svc.Subscribe(context.Background(), userID, programID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{programID}, user.SubscribedProgramIDs())
}

func TestProgramService_SubscribeUnknownProgram(t *testing.T) {
	programRepo := &mockProgramRepo{}
	programRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

	userRepo := &mockUserRepo{}
	svc := NewProgramService(programRepo, &mockWorkoutRepo{}, userRepo)

	_, err := svc.Subscribe(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProgramNotFound)
	userRepo.AssertNotCalled(t, "AddSubscription")
}

func TestProgramService_Unsubscribe(t *testing.T) {
	userID := primitive.NewObjectID()
	programID := primitive.NewObjectID()

	userRepo := &mockUserRepo{}
	userRepo.On("RemoveSubscription", mock.Anything, userID, programID).Return(nil)
	userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)

	svc := NewProgramService(&mockProgramRepo{}, &mockWorkoutRepo{}, userRepo)
	user, err := svc.Unsubscribe(context.Background(), userID, programID)
	require.NoError(t, err)
	assert.Empty(t, user.SubscribedPrograms)
}

func TestProgramService_UpdateOwnership(t *testing.T) {
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	program := domain.Program{ID: primitive.NewObjectID(), UserID: owner, Name: "PPL"}

	programRepo := &mockProgramRepo{}
	programRepo.On("GetByID", mock.Anything, program.ID).Return(&program, nil)

	svc := NewProgramService(programRepo, &mockWorkoutRepo{}, &mockUserRepo{})

	_, err := svc.UpdateProgram(context.Background(), intruder, program.ID, "Stolen", "", nil)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)

	err = svc.DeleteProgram(context.Background(), intruder, program.ID)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)

	programRepo.AssertNotCalled(t, "Update")
	programRepo.AssertNotCalled(t, "Delete")
}
