package ecotipstore

import (
	"context"
	"time"

	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("eco_tips")}
}

// Create inserts a tip. The caller supplies Tip and UserID.
func (s *Store) Create(ctx context.Context, tip models.EcoTip) (models.EcoTip, error) {
	tip.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	tip.CreatedAt = now
	tip.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, tip); err != nil {
		return models.EcoTip{}, err
	}
	return tip, nil
}

// ListNewest returns every tip, most recent first. Ties on created_at fall
// back to _id so ordering is stable.
func (s *Store) ListNewest(ctx context.Context) ([]models.EcoTip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.EcoTip{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
