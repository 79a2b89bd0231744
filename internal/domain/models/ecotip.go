// internal/domain/models/ecotip.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EcoTip is a shared tip on the eco-friendly practices board. User is the
// author's ID; deleting a user does not remove their tips.
type EcoTip struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tip    string             `bson:"tip" json:"tip" validate:"required"`
	UserID primitive.ObjectID `bson:"user" json:"user"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
