// internal/app/features/ecotips/handler.go
package ecotips

import (
	"context"

	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.uber.org/zap"
)

// TipStore is the slice of ecotipstore.Store the tip board needs.
type TipStore interface {
	Create(ctx context.Context, tip models.EcoTip) (models.EcoTip, error)
	ListNewest(ctx context.Context) ([]models.EcoTip, error)
}

// Handler serves the shared eco-friendly practices board.
type Handler struct {
	Tips TipStore
	Log  *zap.Logger
}

// NewHandler constructs an eco-tips Handler.
func NewHandler(tips TipStore, logger *zap.Logger) *Handler {
	return &Handler{Tips: tips, Log: logger}
}
