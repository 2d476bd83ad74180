package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
)

const collectionActivity = "listing_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

// InsertActivity appends one entry to the listing audit trail.
func (r *ActivityRepository) InsertActivity(ctx context.Context, a *domain.ListingActivity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"listing_id":   a.ListingID,
		"actor_id":     a.ActorID,
		"action":       string(a.Action),
		"occurred_at":  a.OccurredAt.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if len(a.Fields) > 0 {
		doc["fields"] = a.Fields
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// EnsureIndexes indexes the trail by listing and time.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("activity indexes: %w", err)
	}
	return nil
}
