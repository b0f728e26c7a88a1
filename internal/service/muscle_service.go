package service

import (
	"context"
	"errors"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMuscleNotFound   = errors.New("muscle not found")
	ErrMuscleNameTaken  = errors.New("a muscle with this name already exists")
	ErrValidationFailed = errors.New("validation failed")
)

// Muscles are shared reference data: any authenticated user can manage
// them, names stay unique.
type MuscleService interface {
	CreateMuscle(ctx context.Context, name string, upper, lower, pushing, pulling bool) (*domain.Muscle, error)
	GetMuscles(ctx context.Context) ([]domain.Muscle, error)
	UpdateMuscle(ctx context.Context, muscleID primitive.ObjectID, name string, upper, lower, pushing, pulling bool) (*domain.Muscle, error)
	DeleteMuscle(ctx context.Context, muscleID primitive.ObjectID) error
}

type muscleService struct {
	muscleRepo repository.MuscleRepository
}

// NewMuscleService creates a new instance of muscleService.
func NewMuscleService(muscleRepo repository.MuscleRepository) MuscleService {
	return &muscleService{
		muscleRepo: muscleRepo,
	}
}

func (s *muscleService) CreateMuscle(ctx context.Context, name string, upper, lower, pushing, pulling bool) (*domain.Muscle, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}

	muscle := &domain.Muscle{
		Name:    name,
		Upper:   upper,
		Lower:   lower,
		Pushing: pushing,
		Pulling: pulling,
	}

	muscleID, err := s.muscleRepo.Create(ctx, muscle)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrMuscleNameTaken
		}
		return nil, err
	}
	muscle.ID = muscleID

	return s.muscleRepo.GetByID(ctx, muscleID)
}

func (s *muscleService) GetMuscles(ctx context.Context) ([]domain.Muscle, error) {
	return s.muscleRepo.GetAll(ctx)
}

func (s *muscleService) UpdateMuscle(ctx context.Context, muscleID primitive.ObjectID, name string, upper, lower, pushing, pulling bool) (*domain.Muscle, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if muscleID == primitive.NilObjectID {
		return nil, errors.New("muscle ID is required")
	}

	existing, err := s.muscleRepo.GetByID(ctx, muscleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMuscleNotFound
		}
		return nil, err
	}

	existing.Name = name
	existing.Upper = upper
	existing.Lower = lower
	existing.Pushing = pushing
	existing.Pulling = pulling

	if err := s.muscleRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrMuscleNameTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMuscleNotFound
		}
		return nil, err
	}
	return existing, nil
}

func (s *muscleService) DeleteMuscle(ctx context.Context, muscleID primitive.ObjectID) error {
	if muscleID == primitive.NilObjectID {
		return errors.New("muscle ID is required")
	}

	if err := s.muscleRepo.Delete(ctx, muscleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMuscleNotFound
		}
		return err
	}
	return nil
}
