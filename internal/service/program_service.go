package service

import (
	"context"
	"errors"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrProgramAccessDenied = errors.New("access denied to modify or delete this program")
	ErrUserNotFound        = errors.New("user not found")
)

type ProgramService interface {
	CreateProgram(ctx context.Context, userID primitive.ObjectID, name, description string, schedule []domain.ScheduleItem) (*domain.Program, error)
	GetPrograms(ctx context.Context) ([]domain.Program, error)
	GetProgramByID(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error)
	UpdateProgram(ctx context.Context, userID, programID primitive.ObjectID, name, description string, schedule []domain.ScheduleItem) (*domain.Program, error)
	DeleteProgram(ctx context.Context, userID, programID primitive.ObjectID) error
	Subscribe(ctx context.Context, userID, programID primitive.ObjectID) (*domain.User, error)
	Unsubscribe(ctx context.Context, userID, programID primitive.ObjectID) (*domain.User, error)
}

// programService implements the ProgramService interface.
type programService struct {
	programRepo repository.ProgramRepository
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	userRepo repository.UserRepository,
) ProgramService {
	return &programService{
		programRepo: programRepo,
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
	}
}

func (s *programService) CreateProgram(ctx context.Context, userID primitive.ObjectID, name, description string, schedule []domain.ScheduleItem) (*domain.Program, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required to create a program")
	}

	program := &domain.Program{
		UserID:      userID,
		Name:        name,
		Description: description,
		Schedule:    schedule,
	}
	if err := program.ValidateSchedule(); err != nil {
		return nil, err
	}
	if err := s.validateScheduleWorkouts(ctx, userID, schedule); err != nil {
		return nil, err
	}

	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	return s.programRepo.GetByID(ctx, programID)
}

func (s *programService) GetPrograms(ctx context.Context) ([]domain.Program, error) {
	return s.programRepo.GetAll(ctx)
}

func (s *programService) GetProgramByID(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

func (s *programService) UpdateProgram(ctx context.Context, userID, programID primitive.ObjectID, name, description string, schedule []domain.ScheduleItem) (*domain.Program, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if userID == primitive.NilObjectID || programID == primitive.NilObjectID {
		return nil, errors.New("user ID and program ID are required")
	}

	existing, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrProgramAccessDenied
	}

	existing.Name = name
	existing.Description = description
	existing.Schedule = schedule
	if err := existing.ValidateSchedule(); err != nil {
		return nil, err
	}
	if err := s.validateScheduleWorkouts(ctx, userID, schedule); err != nil {
		return nil, err
	}

	if err := s.programRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return existing, nil
}

func (s *programService) DeleteProgram(ctx context.Context, userID, programID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || programID == primitive.NilObjectID {
		return errors.New("user ID and program ID are required")
	}

	existing, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	if existing.UserID != userID {
		return ErrProgramAccessDenied
	}

	if err := s.programRepo.Delete(ctx, programID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	return nil
}

// Subscribe adds the program to the user's followed set. Subscribing
// twice is a no-op; any user may follow any program.
func (s *programService) Subscribe(ctx context.Context, userID, programID primitive.ObjectID) (*domain.User, error) {
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	if err := s.userRepo.AddSubscription(ctx, userID, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// Unsubscribe removes the program from the user's followed set.
// Unsubscribing from a program the user does not follow is a no-op.
func (s *programService) Unsubscribe(ctx context.Context, userID, programID primitive.ObjectID) (*domain.User, error) {
	if err := s.userRepo.RemoveSubscription(ctx, userID, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// validateScheduleWorkouts checks that every workout-day references an
// existing workout owned by the program's user.
func (s *programService) validateScheduleWorkouts(ctx context.Context, userID primitive.ObjectID, schedule []domain.ScheduleItem) error {
	idSet := make(map[primitive.ObjectID]struct{})
	for _, item := range schedule {
		if item.Type == domain.ScheduleItemWorkout && item.Workout != nil {
			idSet[*item.Workout] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	found, err := s.workoutRepo.GetByIDs(ctx, setToSlice(idSet))
	if err != nil {
		return err
	}
	owners := make(map[primitive.ObjectID]primitive.ObjectID, len(found))
	for _, w := range found {
		owners[w.ID] = w.UserID
	}
	for id := range idSet {
		owner, ok := owners[id]
		if !ok {
			return ErrWorkoutNotFound
		}
		if owner != userID {
			return ErrWorkoutAccessDenied
		}
	}
	return nil
}
