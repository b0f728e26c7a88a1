package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a named movement, optionally tagged with the
// muscles it engages. Referenced by workouts and workout sessions.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user" json:"user"` // Owning user
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// Muscles engaged by this exercise.
	MuscleIDs []primitive.ObjectID `bson:"muscles,omitempty" json:"muscles,omitempty"`

	// Key of the demonstration media object in the storage bucket.
	// Internal use only; responses carry a presigned URL instead.
	MediaObjectKey string `bson:"mediaObjectKey,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
