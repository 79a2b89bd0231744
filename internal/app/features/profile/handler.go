// internal/app/features/profile/handler.go
package profile

import (
	"context"

	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the slice of userstore.Store the profile handlers need.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error)
	UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error
}

// Handler owns all user profile handlers.
type Handler struct {
	Users UserStore
	Log   *zap.Logger
}

// NewHandler constructs a Handler bound to the given user store and logger.
func NewHandler(users UserStore, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}
