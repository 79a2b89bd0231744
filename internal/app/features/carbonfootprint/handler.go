// internal/app/features/carbonfootprint/handler.go
package carbonfootprint

import (
	"context"
	"time"

	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EntryStore appends carbon entries to a user.
type EntryStore interface {
	AppendCarbonEntry(ctx context.Context, id primitive.ObjectID, e models.CarbonEntry) error
}

// Handler logs carbon-footprint entries for the authenticated user.
type Handler struct {
	Users EntryStore
	Log   *zap.Logger

	now func() time.Time
}

// NewHandler constructs a carbon-footprint Handler.
func NewHandler(users EntryStore, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger, now: time.Now}
}
