package reviewRepo

import (
	"context"
	"fmt"
	"time"

	"tourly/database"
	"tourly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByTourist(touristID string) ([]models.Review, error)

	// AggregateTouristRating returns the review count and mean rating for a
	// tourist, computed server-side.
	AggregateTouristRating(touristID string) (count int, average float64, err error)
}

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo creates a new instance of ReviewRepository using MongoDB.
func NewMongoReviewRepo() ReviewRepository {
	repo := &MongoReviewRepo{coll: database.Collection("reviews")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "tourist_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "guide_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new review document.
func (r *MongoReviewRepo) Create(review *models.Review) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	review.CreatedAt = time.Now()
	_, err := r.coll.InsertOne(ctx, review)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByTourist returns all reviews written by a tourist, newest first.
func (r *MongoReviewRepo) GetByTourist(touristID string) ([]models.Review, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"tourist_id": touristID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for tourist %s: %w", touristID, err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %w", err)
	}
	return reviews, nil
}

// AggregateTouristRating computes the tourist's review count and mean rating.
func (r *MongoReviewRepo) AggregateTouristRating(touristID string) (int, float64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tourist_id": touristID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"average": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate review rating: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Count   int     `bson:"count"`
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("error decoding review aggregate: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Count, results[0].Average, nil
}
