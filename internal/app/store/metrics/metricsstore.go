package metricsstore

import (
	"context"

	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Counts is the set of collection totals exported as gauges.
type Counts struct {
	Individuals int64
	Families    int64
	Businesses  int64
	EcoTips     int64
}

// Users returns the total across all user types.
func (c Counts) Users() int64 {
	return c.Individuals + c.Families + c.Businesses
}

// FetchCounts returns per-type user totals and the tip count. A failed
// count is logged at Warn and reported as 0.
func FetchCounts(ctx context.Context, db *mongo.Database, logger *zap.Logger) Counts {
	var out Counts

	users := db.Collection("users")
	for _, t := range []struct {
		kind models.UserType
		dst  *int64
	}{
		{models.UserIndividual, &out.Individuals},
		{models.UserFamily, &out.Families},
		{models.UserBusiness, &out.Businesses},
	} {
		n, err := users.CountDocuments(ctx, bson.M{"user_type": t.kind})
		if err != nil {
			logger.Warn("metrics: user count failed", zap.String("user_type", string(t.kind)), zap.Error(err))
			continue
		}
		*t.dst = n
	}

	n, err := db.Collection("eco_tips").EstimatedDocumentCount(ctx)
	if err != nil {
		logger.Warn("metrics: eco tip count failed", zap.Error(err))
	} else {
		out.EcoTips = n
	}

	return out
}
