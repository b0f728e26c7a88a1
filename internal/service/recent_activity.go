package service

import (
	"context"
	"errors"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// standaloneActivityLimit caps how many standalone workout groups the
// dashboard shows.
const standaloneActivityLimit = 2

// RecentActivity is the dashboard summary: the latest session of each
// subscribed program, and the latest session of the two most recently
// trained standalone workouts. The two lists never mix; a session
// logged under a program never surfaces as standalone activity.
type RecentActivity struct {
	ProgramSessions    []SessionDetail `json:"programSessions"`
	StandaloneSessions []SessionDetail `json:"standaloneSessions"`
}

// RecentActivityService assembles the dashboard summary for a user.
type RecentActivityService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	populater   *Populater
}

// NewRecentActivityService creates a new RecentActivityService.
func NewRecentActivityService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	populater *Populater,
) *RecentActivityService {
	return &RecentActivityService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		populater:   populater,
	}
}

// RecentActivityFor builds the summary for the given user. Both lists
// come back ordered by session creation time, newest first. A user with
// no subscriptions and no standalone sessions gets two empty lists.
func (s *RecentActivityService) RecentActivityFor(ctx context.Context, userID primitive.ObjectID) (*RecentActivity, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	activity := &RecentActivity{
		ProgramSessions:    []SessionDetail{},
		StandaloneSessions: []SessionDetail{},
	}

	programIDs := user.SubscribedProgramIDs()
	if len(programIDs) > 0 {
		rows, err := s.sessionRepo.LatestPerProgram(ctx, userID, programIDs)
		if err != nil {
			return nil, err
		}
		activity.ProgramSessions, err = s.detailsForRows(ctx, rows)
		if err != nil {
			return nil, err
		}
	}

	standaloneRows, err := s.sessionRepo.LatestStandalonePerWorkout(ctx, userID, standaloneActivityLimit)
	if err != nil {
		return nil, err
	}
	activity.StandaloneSessions, err = s.detailsForRows(ctx, standaloneRows)
	if err != nil {
		return nil, err
	}

	return activity, nil
}

// detailsForRows fetches and populates the sessions named by the rows,
// preserving the rows' order.
func (s *RecentActivityService) detailsForRows(ctx context.Context, rows []repository.LatestSessionRow) ([]SessionDetail, error) {
	if len(rows) == 0 {
		return []SessionDetail{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SessionID)
	}

	sessions, err := s.sessionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.WorkoutSession, len(sessions))
	for _, sess := range sessions {
		byID[sess.ID] = sess
	}

	ordered := make([]domain.WorkoutSession, 0, len(rows))
	for _, row := range rows {
		if sess, ok := byID[row.SessionID]; ok {
			ordered = append(ordered, sess)
		}
	}

	return s.populater.SessionDetails(ctx, ordered)
}
