package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the workout session lifecycle.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// Valid reports whether s is one of the known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionInProgress, SessionCompleted, SessionAbandoned:
		return true
	}
	return false
}

// PerformedSet records one actually performed set. Seeded from a
// planned set with zero weight, then updated by the client as the set
// is done.
type PerformedSet struct {
	Weight    float64 `bson:"weight" json:"weight"`
	Reps      int     `bson:"reps" json:"reps"`
	DropSet   bool    `bson:"dropSet" json:"dropSet"`
	RestPause bool    `bson:"restPause" json:"restPause"`
	Completed bool    `bson:"completed" json:"completed"`
	Notes     string  `bson:"notes" json:"notes"`
}

// Qualifying reports whether the set counts as a real performance:
// something was actually lifted for at least one rep.
func (s PerformedSet) Qualifying() bool {
	return s.Weight > 0 && s.Reps > 0
}

// ExercisePerformance tracks one exercise's actual sets within a session.
type ExercisePerformance struct {
	ExerciseID primitive.ObjectID `bson:"exercise" json:"exercise"`
	Sets       []PerformedSet     `bson:"sets" json:"sets"`
}

// HasQualifyingSet reports whether any set was performed with nonzero
// weight and reps.
func (p ExercisePerformance) HasQualifyingSet() bool {
	for _, set := range p.Sets {
		if set.Qualifying() {
			return true
		}
	}
	return false
}

// WorkoutSession is a concrete, timestamped performance record
// instantiated from a workout template. Performances are created once,
// at session creation, by copying the template; program and programDay
// are fixed at creation.
type WorkoutSession struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID  `bson:"user" json:"user"`
	WorkoutID  primitive.ObjectID  `bson:"workout" json:"workout"`
	ProgramID  *primitive.ObjectID `bson:"program,omitempty" json:"program,omitempty"`
	ProgramDay *int                `bson:"programDay,omitempty" json:"programDay,omitempty"` // Index into the program schedule

	Status               SessionStatus         `bson:"status" json:"status"`
	ExercisePerformances []ExercisePerformance `bson:"exercisePerformances" json:"exercisePerformances"`
	Notes                string                `bson:"notes" json:"notes"`
	Duration             int                   `bson:"duration,omitempty" json:"duration,omitempty"` // Minutes

	// Set exactly once, on the first transition to completed.
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PerformanceFor returns the performance entry for the given exercise,
// or nil when the session does not contain it.
func (s *WorkoutSession) PerformanceFor(exerciseID primitive.ObjectID) *ExercisePerformance {
	for i := range s.ExercisePerformances {
		if s.ExercisePerformances[i].ExerciseID == exerciseID {
			return &s.ExercisePerformances[i]
		}
	}
	return nil
}

// PerformancesFromTemplate seeds exercise performances from a workout
// template. Sets inherit planned reps and flags; weight starts at zero
// and nothing is marked completed.
func PerformancesFromTemplate(workout *Workout) []ExercisePerformance {
	performances := make([]ExercisePerformance, 0, len(workout.Exercises))
	for _, we := range workout.Exercises {
		sets := make([]PerformedSet, 0, len(we.Sets))
		for _, planned := range we.Sets {
			sets = append(sets, PerformedSet{
				Weight:    0,
				Reps:      planned.Reps,
				DropSet:   planned.DropSet,
				RestPause: planned.RestPause,
				Completed: false,
				Notes:     "",
			})
		}
		performances = append(performances, ExercisePerformance{
			ExerciseID: we.ExerciseID,
			Sets:       sets,
		})
	}
	return performances
}
