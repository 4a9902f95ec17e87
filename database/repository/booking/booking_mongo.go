package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"tourly/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{coll: database.Collection("bookings")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "tourist_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "guide_id", Value: 1}, {Key: "scheduled_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
