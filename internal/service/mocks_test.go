package service

import (
	"context"
	"io"
	"time"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) AddSubscription(ctx context.Context, userID, programID primitive.ObjectID) error {
	args := m.Called(ctx, userID, programID)
	return args.Error(0)
}

func (m *mockUserRepo) RemoveSubscription(ctx context.Context, userID, programID primitive.ObjectID) error {
	args := m.Called(ctx, userID, programID)
	return args.Error(0)
}

type mockMuscleRepo struct {
	mock.Mock
}

func (m *mockMuscleRepo) Create(ctx context.Context, muscle *domain.Muscle) (primitive.ObjectID, error) {
	args := m.Called(ctx, muscle)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockMuscleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Muscle, error) {
	args := m.Called(ctx, id)
	if muscle, ok := args.Get(0).(*domain.Muscle); ok {
		return muscle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMuscleRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Muscle, error) {
	args := m.Called(ctx, ids)
	if muscles, ok := args.Get(0).([]domain.Muscle); ok {
		return muscles, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMuscleRepo) GetAll(ctx context.Context) ([]domain.Muscle, error) {
	args := m.Called(ctx)
	if muscles, ok := args.Get(0).([]domain.Muscle); ok {
		return muscles, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMuscleRepo) Update(ctx context.Context, muscle *domain.Muscle) error {
	args := m.Called(ctx, muscle)
	return args.Error(0)
}

func (m *mockMuscleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockExerciseRepo struct {
	mock.Mock
}

func (m *mockExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	args := m.Called(ctx, exercise)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	if exercise, ok := args.Get(0).(*domain.Exercise); ok {
		return exercise, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockExerciseRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	args := m.Called(ctx, ids)
	if exercises, ok := args.Get(0).([]domain.Exercise); ok {
		return exercises, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockExerciseRepo) GetAll(ctx context.Context) ([]domain.Exercise, error) {
	args := m.Called(ctx)
	if exercises, ok := args.Get(0).([]domain.Exercise); ok {
		return exercises, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	args := m.Called(ctx, exercise)
	return args.Error(0)
}

func (m *mockExerciseRepo) SetMediaObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	args := m.Called(ctx, id, objectKey)
	return args.Error(0)
}

func (m *mockExerciseRepo) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type mockWorkoutRepo struct {
	mock.Mock
}

func (m *mockWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	args := m.Called(ctx, workout)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	args := m.Called(ctx, id)
	if workout, ok := args.Get(0).(*domain.Workout); ok {
		return workout, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkoutRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error) {
	args := m.Called(ctx, ids)
	if workouts, ok := args.Get(0).([]domain.Workout); ok {
		return workouts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkoutRepo) GetAll(ctx context.Context) ([]domain.Workout, error) {
	args := m.Called(ctx)
	if workouts, ok := args.Get(0).([]domain.Workout); ok {
		return workouts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	args := m.Called(ctx, workout)
	return args.Error(0)
}

func (m *mockWorkoutRepo) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type mockProgramRepo struct {
	mock.Mock
}

func (m *mockProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	args := m.Called(ctx, program)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	args := m.Called(ctx, id)
	if program, ok := args.Get(0).(*domain.Program); ok {
		return program, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProgramRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Program, error) {
	args := m.Called(ctx, ids)
	if programs, ok := args.Get(0).([]domain.Program); ok {
		return programs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProgramRepo) GetAll(ctx context.Context) ([]domain.Program, error) {
	args := m.Called(ctx)
	if programs, ok := args.Get(0).([]domain.Program); ok {
		return programs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProgramRepo) Update(ctx context.Context, program *domain.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *mockProgramRepo) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	args := m.Called(ctx, id)
	if session, ok := args.Get(0).(*domain.WorkoutSession); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.WorkoutSession, error) {
	args := m.Called(ctx, ids)
	if sessions, ok := args.Get(0).([]domain.WorkoutSession); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	args := m.Called(ctx, userID)
	if sessions, ok := args.Get(0).([]domain.WorkoutSession); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) Update(ctx context.Context, id primitive.ObjectID, update repository.SessionUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockSessionRepo) FindLastCompletedWithExercise(ctx context.Context, userID, exerciseID, excludeID primitive.ObjectID) (*domain.WorkoutSession, error) {
	args := m.Called(ctx, userID, exerciseID, excludeID)
	if session, ok := args.Get(0).(*domain.WorkoutSession); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) LatestPerProgram(ctx context.Context, userID primitive.ObjectID, programIDs []primitive.ObjectID) ([]repository.LatestSessionRow, error) {
	args := m.Called(ctx, userID, programIDs)
	if rows, ok := args.Get(0).([]repository.LatestSessionRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) LatestStandalonePerWorkout(ctx context.Context, userID primitive.ObjectID, limit int) ([]repository.LatestSessionRow, error) {
	args := m.Called(ctx, userID, limit)
	if rows, ok := args.Get(0).([]repository.LatestSessionRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockFileStorage struct {
	mock.Mock
}

func (m *mockFileStorage) UploadObject(ctx context.Context, objectKey, contentType string, body io.Reader) error {
	args := m.Called(ctx, objectKey, contentType, body)
	return args.Error(0)
}

func (m *mockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expiry)
	return args.String(0), args.Error(1)
}

func (m *mockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}
