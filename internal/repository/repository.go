package repository

import (
	"context"
	"time"

	"github.com/fitlog/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddSubscription(ctx context.Context, userID, programID primitive.ObjectID) error
	RemoveSubscription(ctx context.Context, userID, programID primitive.ObjectID) error
}

// MuscleRepository defines the interface for interacting with muscle data.
type MuscleRepository interface {
	Create(ctx context.Context, muscle *domain.Muscle) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Muscle, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Muscle, error)
	GetAll(ctx context.Context) ([]domain.Muscle, error)
	Update(ctx context.Context, muscle *domain.Muscle) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	SetMediaObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
	Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error // Ensure user owns the exercise
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error)
	GetAll(ctx context.Context) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error
}

// ProgramRepository defines the interface for interacting with program data.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Program, error)
	GetAll(ctx context.Context) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error
}

// SessionUpdate carries the client-mutable session fields for a partial
// update. Nil fields are left untouched.
type SessionUpdate struct {
	ExercisePerformances []domain.ExercisePerformance
	Notes                *string
	Status               *domain.SessionStatus
	Duration             *int
	CompletedAt          *time.Time
}

// LatestSessionRow is one row of a group-latest aggregation: the most
// recent session id within a group and when it was created.
type LatestSessionRow struct {
	SessionID primitive.ObjectID `bson:"sessionId"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// SessionRepository defines the interface for interacting with workout
// session data, including the history and recent-activity queries.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.WorkoutSession, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	Update(ctx context.Context, id primitive.ObjectID, update SessionUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error

	// FindLastCompletedWithExercise returns the user's most recent
	// completed session, other than excludeID, containing the exercise
	// with at least one set of nonzero weight and reps. Ties on
	// completedAt resolve to the highest session id. Returns
	// ErrNotFound when no session qualifies.
	FindLastCompletedWithExercise(ctx context.Context, userID, exerciseID, excludeID primitive.ObjectID) (*domain.WorkoutSession, error)

	// LatestPerProgram groups the user's sessions under the given
	// programs by program and returns the most recently created session
	// of each group, ordered by createdAt descending.
	LatestPerProgram(ctx context.Context, userID primitive.ObjectID, programIDs []primitive.ObjectID) ([]LatestSessionRow, error)

	// LatestStandalonePerWorkout groups the user's program-less
	// sessions by workout, keeps the most recently created session of
	// each group, and returns at most limit rows ordered by createdAt
	// descending.
	LatestStandalonePerWorkout(ctx context.Context, userID primitive.ObjectID, limit int) ([]LatestSessionRow, error)
}
