// internal/app/features/goals/handler.go
package goals

import (
	"context"

	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// GoalStore replaces a user's goal list.
type GoalStore interface {
	SetGoals(ctx context.Context, id primitive.ObjectID, goals []models.Goal) error
}

// Handler serves the sustainability-goals resource.
type Handler struct {
	Users GoalStore
	Log   *zap.Logger
}

// NewHandler constructs a goals Handler.
func NewHandler(users GoalStore, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}
