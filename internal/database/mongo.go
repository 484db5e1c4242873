package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"contentproof/internal/config"
)

// NewMongo connects to the document store and verifies the primary is reachable.
func NewMongo(ctx context.Context, c config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if c.URI == "" {
		return nil, nil, errors.New("invalid mongo config: uri is required")
	}
	if c.Database == "" {
		return nil, nil, errors.New("invalid mongo config: database is required")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(c.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	if err := pingWithin(ctx, "mongo", ping, func() { _ = client.Disconnect(context.Background()) }); err != nil {
		return nil, nil, err
	}

	return client, client.Database(c.Database), nil
}
