package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a MongoDB client and verifies the connection with a ping.
func Connect(uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo within %v: %w", timeout, err)
	}

	return client, nil
}

// EnsureIndexes creates the indexes the tournament collection relies on:
// the listing sort on dateTime and the user-history lookup on the embedded
// participants' userId.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	tournaments := database.Collection("tournaments")
	_, err := tournaments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "dateTime", Value: 1}}},
		{Keys: bson.D{{Key: "participants.userId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create tournament indexes: %w", err)
	}

	users := database.Collection("users")
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user email index: %w", err)
	}
	return nil
}
