package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlannedSet is a single set within a workout template. It carries no
// weight: planned sets describe intent, performed sets record reality.
type PlannedSet struct {
	Reps      int  `bson:"reps" json:"reps"`
	DropSet   bool `bson:"dropSet" json:"dropSet"`
	RestPause bool `bson:"restPause" json:"restPause"`
}

// WorkoutExercise pairs an exercise reference with its planned sets.
type WorkoutExercise struct {
	ExerciseID primitive.ObjectID `bson:"exercise" json:"exercise"`
	Sets       []PlannedSet       `bson:"sets" json:"sets"`
}

// Workout is a named template: an ordered list of exercises each with
// planned sets. Sessions are instantiated from it.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user" json:"user"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Exercises   []WorkoutExercise  `bson:"exercises" json:"exercises"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
