package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names.
const (
	Users     = "users"
	Biodata   = "biodata"
	Favorites = "favourites"
	Payments  = "payments"
	Counters  = "counters"
)

// Connect opens a client against uri and verifies it with a ping. The caller
// owns the returned client and must Disconnect it.
func Connect(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	logger.Info("connected to mongodb")
	return client, nil
}

// EnsureIndexes creates the indexes the services rely on. The unique email
// index on users backs idempotent registration.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		Users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		Biodata: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "biodataID", Value: 1}}},
			{Keys: bson.D{{Key: "gender", Value: 1}, {Key: "permanentDivision", Value: 1}}},
		},
		Favorites: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		Payments: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "date", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", name, err)
		}
	}
	return nil
}
