package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSessionNotFound     = errors.New("workout session not found")
	ErrSessionAccessDenied = errors.New("access denied to view, modify or delete this workout session")
	ErrInvalidStatus       = errors.New("invalid session status")
	ErrInvalidProgramDay   = errors.New("program day is out of schedule bounds or not a workout day")
)

type SessionService interface {
	CreateSession(ctx context.Context, userID, workoutID primitive.ObjectID, programID *primitive.ObjectID, programDay *int) (*SessionDetail, error)
	GetSessions(ctx context.Context, userID primitive.ObjectID) ([]SessionDetail, error)
	GetSessionByID(ctx context.Context, userID, sessionID primitive.ObjectID) (*SessionDetail, error)
	UpdateSession(ctx context.Context, userID, sessionID primitive.ObjectID, update repository.SessionUpdate) (*SessionDetail, error)
	DeleteSession(ctx context.Context, userID, sessionID primitive.ObjectID) error
}

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo repository.SessionRepository
	workoutRepo repository.WorkoutRepository
	programRepo repository.ProgramRepository
	populater   *Populater
	now         func() time.Time
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	workoutRepo repository.WorkoutRepository,
	programRepo repository.ProgramRepository,
	populater *Populater,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		workoutRepo: workoutRepo,
		programRepo: programRepo,
		populater:   populater,
		now:         time.Now,
	}
}

// CreateSession instantiates a session from a workout template. The
// performances are copied from the template once, here; later template
// edits never touch existing sessions.
func (s *sessionService) CreateSession(ctx context.Context, userID, workoutID primitive.ObjectID, programID *primitive.ObjectID, programDay *int) (*SessionDetail, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required to create a session")
	}

	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if programID != nil {
		if err := s.validateProgramDay(ctx, *programID, programDay, workoutID); err != nil {
			return nil, err
		}
	} else if programDay != nil {
		return nil, fmt.Errorf("%w: program day given without a program", ErrValidationFailed)
	}

	session := &domain.WorkoutSession{
		UserID:               userID,
		WorkoutID:            workoutID,
		ProgramID:            programID,
		ProgramDay:           programDay,
		Status:               domain.SessionInProgress,
		ExercisePerformances: domain.PerformancesFromTemplate(workout),
	}

	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	created, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.populater.SessionDetailFor(ctx, created)
}

func (s *sessionService) GetSessions(ctx context.Context, userID primitive.ObjectID) ([]SessionDetail, error) {
	sessions, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populater.SessionDetails(ctx, sessions)
}

func (s *sessionService) GetSessionByID(ctx context.Context, userID, sessionID primitive.ObjectID) (*SessionDetail, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.populater.SessionDetailFor(ctx, session)
}

// UpdateSession applies a partial update. Completed sessions stay
// editable; completedAt is stamped on the first transition to completed
// and never overwritten by later transitions.
func (s *sessionService) UpdateSession(ctx context.Context, userID, sessionID primitive.ObjectID, update repository.SessionUpdate) (*SessionDetail, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if *update.Status == domain.SessionCompleted && session.CompletedAt == nil && update.CompletedAt == nil {
			now := s.now().UTC()
			update.CompletedAt = &now
		}
	}
	if update.Duration != nil && *update.Duration < 0 {
		return nil, fmt.Errorf("%w: negative duration", ErrValidationFailed)
	}
	for i, perf := range update.ExercisePerformances {
		for j, set := range perf.Sets {
			if set.Weight < 0 || set.Reps < 0 {
				return nil, fmt.Errorf("%w: performance %d set %d has negative weight or reps", ErrValidationFailed, i, j)
			}
		}
	}

	if err := s.sessionRepo.Update(ctx, sessionID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	updated, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.populater.SessionDetailFor(ctx, updated)
}

func (s *sessionService) DeleteSession(ctx context.Context, userID, sessionID primitive.ObjectID) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}

	if err := s.sessionRepo.Delete(ctx, sessionID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

func (s *sessionService) ownedSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionAccessDenied
	}
	return session, nil
}

// validateProgramDay checks that the program exists and, when a day is
// given, that it indexes a workout day in the schedule matching the
// workout being performed.
func (s *sessionService) validateProgramDay(ctx context.Context, programID primitive.ObjectID, programDay *int, workoutID primitive.ObjectID) error {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	if programDay == nil {
		return nil
	}

	day := *programDay
	if day < 0 || day >= len(program.Schedule) {
		return ErrInvalidProgramDay
	}
	item := program.Schedule[day]
	if item.Type != domain.ScheduleItemWorkout || item.Workout == nil || *item.Workout != workoutID {
		return ErrInvalidProgramDay
	}
	return nil
}
