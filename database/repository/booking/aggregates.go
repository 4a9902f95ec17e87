package bookingRepo

import (
	"fmt"
	"time"

	"tourly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AggregateTouristStats computes booking counts and spend sums for a tourist
// in a single aggregation pass. Spend intentionally sums over all statuses,
// matching the product's historical accounting of cancelled bookings.
func (r *MongoBookingRepo) AggregateTouristStats(touristID string, now time.Time) (*TouristBookingStats, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tourist_id": touristID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalBookings": bson.M{"$sum": 1},
			"totalSpent":    bson.M{"$sum": "$total_price"},
			"monthlySpent": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$created_at", monthStart}},
				"$total_price",
				0,
			}}},
			"completed": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.BookingCompleted}},
				1,
				0,
			}}},
			"confirmedPast": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$status", models.BookingConfirmed}},
					bson.M{"$lt": bson.A{"$scheduled_at", now}},
				}},
				1,
				0,
			}}},
			"upcoming": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$status", models.BookingConfirmed}},
					bson.M{"$gte": bson.A{"$scheduled_at", now}},
				}},
				1,
				0,
			}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tourist stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []TouristBookingStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding tourist stats: %w", err)
	}
	if len(results) == 0 {
		return &TouristBookingStats{}, nil
	}
	return &results[0], nil
}
