package domain

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleItemType discriminates the two kinds of schedule entries.
type ScheduleItemType string

const (
	ScheduleItemWorkout ScheduleItemType = "workout"
	ScheduleItemRest    ScheduleItemType = "rest"
)

var (
	ErrScheduleItemInvalidType    = errors.New("schedule item type must be 'workout' or 'rest'")
	ErrScheduleItemMissingWorkout = errors.New("schedule item of type 'workout' requires a workout reference")
	ErrScheduleItemRestHasWorkout = errors.New("schedule item of type 'rest' must not carry a workout reference")
)

// ScheduleItem is one day in a program schedule: either a workout day
// carrying a workout reference, or a rest day carrying none.
type ScheduleItem struct {
	Type    ScheduleItemType    `bson:"type" json:"type"`
	Workout *primitive.ObjectID `bson:"workout,omitempty" json:"workout,omitempty"`
}

// Validate checks the workout/rest variant rules exhaustively.
func (s ScheduleItem) Validate() error {
	switch s.Type {
	case ScheduleItemWorkout:
		if s.Workout == nil || *s.Workout == primitive.NilObjectID {
			return ErrScheduleItemMissingWorkout
		}
		return nil
	case ScheduleItemRest:
		if s.Workout != nil {
			return ErrScheduleItemRestHasWorkout
		}
		return nil
	default:
		return ErrScheduleItemInvalidType
	}
}

// Program is a named ordered schedule of workout-days and rest-days.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user" json:"user"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Schedule    []ScheduleItem     `bson:"schedule" json:"schedule"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ValidateSchedule validates every schedule item, reporting the first
// offending index.
func (p *Program) ValidateSchedule() error {
	for i, item := range p.Schedule {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("schedule item %d: %w", i, err)
		}
	}
	return nil
}
