package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hrm-access/config"
)

// Connect opens and pings the MongoDB deployment backing the HR data
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Fail fast on an unreachable deployment
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}
