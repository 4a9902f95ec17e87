package database

import (
	"context"
	"log"
	"time"

	"tourly/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the shared MongoDB client. Repositories derive their
// collection handles from it after InitDB has run.
var MongoClient *mongo.Client

// InitDB connects to MongoDB and verifies the connection. Bookings and
// payments live in Mongo, so the process cannot serve traffic without it
// and startup aborts on failure.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.AppConfig.DatabaseURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}

	MongoClient = client
	log.Printf("Connected to MongoDB (database %q)", config.AppConfig.DatabaseName)
}

// Collection returns a handle in the configured database.
func Collection(name string) *mongo.Collection {
	return MongoClient.Database(config.AppConfig.DatabaseName).Collection(name)
}
