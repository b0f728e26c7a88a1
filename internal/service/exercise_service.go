package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"
	"github.com/fitlog/backend/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrInvalidMediaType     = errors.New("invalid or missing media content type")
)

type ExerciseService interface {
	CreateExercise(ctx context.Context, userID primitive.ObjectID, name, description string, muscleIDs []primitive.ObjectID) (*ExerciseDetail, error)
	GetExercises(ctx context.Context) ([]ExerciseDetail, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*ExerciseDetail, error)
	UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, name, description string, muscleIDs []primitive.ObjectID) (*ExerciseDetail, error)
	DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error
	UploadMedia(ctx context.Context, userID, exerciseID primitive.ObjectID, fileName, contentType string, body io.Reader) (*ExerciseDetail, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	muscleRepo   repository.MuscleRepository
	fileStorage  storage.FileStorage
	populater    *Populater
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	muscleRepo repository.MuscleRepository,
	fileStorage storage.FileStorage,
	populater *Populater,
) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		muscleRepo:   muscleRepo,
		fileStorage:  fileStorage,
		populater:    populater,
	}
}

// CreateExercise handles the creation of a new exercise.
func (s *exerciseService) CreateExercise(ctx context.Context, userID primitive.ObjectID, name, description string, muscleIDs []primitive.ObjectID) (*ExerciseDetail, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required to create an exercise")
	}

	if err := s.validateMuscleRefs(ctx, muscleIDs); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		UserID:      userID,
		Name:        name,
		Description: description,
		MuscleIDs:   muscleIDs,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}

	created, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	return s.populater.ExerciseDetailFor(ctx, created)
}

// GetExercises retrieves the shared exercise library, muscles resolved.
func (s *exerciseService) GetExercises(ctx context.Context) ([]ExerciseDetail, error) {
	exercises, err := s.exerciseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.populater.ExerciseDetails(ctx, exercises)
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*ExerciseDetail, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return s.populater.ExerciseDetailFor(ctx, exercise)
}

// UpdateExercise handles updating an existing exercise, ensuring ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, name, description string, muscleIDs []primitive.ObjectID) (*ExerciseDetail, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if userID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return nil, errors.New("user ID and exercise ID are required")
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if existing.UserID != userID {
		return nil, ErrExerciseAccessDenied
	}

	if err := s.validateMuscleRefs(ctx, muscleIDs); err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Description = description
	existing.MuscleIDs = muscleIDs

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return s.populater.ExerciseDetailFor(ctx, existing)
}

// DeleteExercise handles deleting an exercise, ensuring ownership.
// Any stored demonstration media is deleted with it.
func (s *exerciseService) DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return errors.New("user ID and exercise ID are required")
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	if existing.UserID != userID {
		return ErrExerciseAccessDenied
	}

	// The repo filter re-checks ownership at the DB level.
	if err := s.exerciseRepo.Delete(ctx, exerciseID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if existing.MediaObjectKey != "" && s.fileStorage != nil {
		// Best effort; the exercise itself is gone either way.
		_ = s.fileStorage.DeleteObject(ctx, existing.MediaObjectKey)
	}

	return nil
}

// UploadMedia stores demonstration media for an exercise, replacing any
// previous object.
func (s *exerciseService) UploadMedia(ctx context.Context, userID, exerciseID primitive.ObjectID, fileName, contentType string, body io.Reader) (*ExerciseDetail, error) {
	if userID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return nil, errors.New("user ID and exercise ID are required")
	}
	lowered := strings.ToLower(contentType)
	if !strings.HasPrefix(lowered, "video/") && !strings.HasPrefix(lowered, "image/") {
		return nil, ErrInvalidMediaType
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrExerciseAccessDenied
	}

	objectKey := path.Join("exercises", uuid.NewString()+strings.ToLower(path.Ext(fileName)))
	if err := s.fileStorage.UploadObject(ctx, objectKey, contentType, body); err != nil {
		return nil, err
	}

	if err := s.exerciseRepo.SetMediaObjectKey(ctx, exerciseID, objectKey); err != nil {
		_ = s.fileStorage.DeleteObject(ctx, objectKey)
		return nil, err
	}

	if existing.MediaObjectKey != "" {
		_ = s.fileStorage.DeleteObject(ctx, existing.MediaObjectKey)
	}

	existing.MediaObjectKey = objectKey
	return s.populater.ExerciseDetailFor(ctx, existing)
}

func (s *exerciseService) validateMuscleRefs(ctx context.Context, muscleIDs []primitive.ObjectID) error {
	if len(muscleIDs) == 0 {
		return nil
	}
	muscles, err := s.muscleRepo.GetByIDs(ctx, muscleIDs)
	if err != nil {
		return err
	}
	known := make(map[primitive.ObjectID]struct{}, len(muscles))
	for _, m := range muscles {
		known[m.ID] = struct{}{}
	}
	for _, id := range muscleIDs {
		if _, ok := known[id]; !ok {
			return ErrMuscleNotFound
		}
	}
	return nil
}
