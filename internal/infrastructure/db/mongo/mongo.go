package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping,
// and returns the client together with the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates all collection indexes the API relies on, including
// the unique constraints that make duplicate rejection atomic.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := NewOrgRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("org indexes: %w", err)
	}
	if err := NewRecordRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("record indexes: %w", err)
	}
	return nil
}
