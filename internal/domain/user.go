package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramSubscription links a user to a program they follow.
type ProgramSubscription struct {
	Program primitive.ObjectID `bson:"program" json:"program"`
}

// User represents an account in the system.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON

	// Programs the user currently follows. Recent-activity aggregation
	// only considers program sessions logged under one of these.
	SubscribedPrograms []ProgramSubscription `bson:"subscribedPrograms,omitempty" json:"subscribedPrograms,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SubscribedProgramIDs returns the ids of all programs the user follows.
func (u *User) SubscribedProgramIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(u.SubscribedPrograms))
	for _, sub := range u.SubscribedPrograms {
		ids = append(ids, sub.Program)
	}
	return ids
}
