package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Muscle is a shared reference entity classifying a muscle by body half
// and movement pattern. Names are unique across the collection.
type Muscle struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Upper   bool               `bson:"upper" json:"upper"`
	Lower   bool               `bson:"lower" json:"lower"`
	Pushing bool               `bson:"pushing" json:"pushing"`
	Pulling bool               `bson:"pulling" json:"pulling"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
