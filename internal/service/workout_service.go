package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrWorkoutNotFound     = errors.New("workout not found")
	ErrWorkoutAccessDenied = errors.New("access denied to modify or delete this workout")
)

type WorkoutService interface {
	CreateWorkout(ctx context.Context, userID primitive.ObjectID, name, description string, exercises []domain.WorkoutExercise) (*WorkoutDetail, error)
	GetWorkouts(ctx context.Context) ([]WorkoutDetail, error)
	GetWorkoutByID(ctx context.Context, workoutID primitive.ObjectID) (*WorkoutDetail, error)
	UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, name, description string, exercises []domain.WorkoutExercise) (*WorkoutDetail, error)
	DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	populater    *Populater
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	populater *Populater,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		populater:    populater,
	}
}

func (s *workoutService) CreateWorkout(ctx context.Context, userID primitive.ObjectID, name, description string, exercises []domain.WorkoutExercise) (*WorkoutDetail, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required to create a workout")
	}
	if err := s.validateExercises(ctx, exercises); err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		UserID:      userID,
		Name:        name,
		Description: description,
		Exercises:   exercises,
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}

	created, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	return s.workoutDetailFor(ctx, created)
}

func (s *workoutService) GetWorkouts(ctx context.Context) ([]WorkoutDetail, error) {
	workouts, err := s.workoutRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.populater.WorkoutDetails(ctx, workouts)
}

func (s *workoutService) GetWorkoutByID(ctx context.Context, workoutID primitive.ObjectID) (*WorkoutDetail, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return s.workoutDetailFor(ctx, workout)
}

func (s *workoutService) UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, name, description string, exercises []domain.WorkoutExercise) (*WorkoutDetail, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if userID == primitive.NilObjectID || workoutID == primitive.NilObjectID {
		return nil, errors.New("user ID and workout ID are required")
	}

	existing, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if existing.UserID != userID {
		return nil, ErrWorkoutAccessDenied
	}

	if err := s.validateExercises(ctx, exercises); err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Description = description
	existing.Exercises = exercises

	if err := s.workoutRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return s.workoutDetailFor(ctx, existing)
}

func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || workoutID == primitive.NilObjectID {
		return errors.New("user ID and workout ID are required")
	}

	existing, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	if existing.UserID != userID {
		return ErrWorkoutAccessDenied
	}

	if err := s.workoutRepo.Delete(ctx, workoutID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// validateExercises checks that every referenced exercise exists and
// that planned sets are sane.
func (s *workoutService) validateExercises(ctx context.Context, exercises []domain.WorkoutExercise) error {
	ids := make([]primitive.ObjectID, 0, len(exercises))
	for i, we := range exercises {
		if we.ExerciseID == primitive.NilObjectID {
			return fmt.Errorf("exercise %d: %w", i, ErrExerciseNotFound)
		}
		for j, set := range we.Sets {
			if set.Reps < 0 {
				return fmt.Errorf("exercise %d set %d: negative reps: %w", i, j, ErrValidationFailed)
			}
		}
		ids = append(ids, we.ExerciseID)
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[primitive.ObjectID]struct{}, len(found))
	for _, ex := range found {
		known[ex.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return ErrExerciseNotFound
		}
	}
	return nil
}

func (s *workoutService) workoutDetailFor(ctx context.Context, workout *domain.Workout) (*WorkoutDetail, error) {
	details, err := s.populater.WorkoutDetails(ctx, []domain.Workout{*workout})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}
