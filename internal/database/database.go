package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const pingTimeout = 5 * time.Second

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect dials MongoDB and keeps retrying every retryInterval until the
// server answers a ping or ctx is cancelled.
func Connect(ctx context.Context, uri string, name string, retryInterval time.Duration) (*DB, error) {
	var client *mongo.Client

	err := retry(ctx, retryInterval, func(ctx context.Context) error {
		c, err := mongo.Connect(options.Client().ApplyURI(uri))
		if err != nil {
			return fmt.Errorf("create mongo client: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return fmt.Errorf("ping database: %w", err)
		}

		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("database connected", "database", name)
	return &DB{Client: client, Database: client.Database(name)}, nil
}

func (db *DB) Close(ctx context.Context) error {
	if db == nil || db.Client == nil {
		return nil
	}
	return db.Client.Disconnect(ctx)
}

func (db *DB) Health(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// retry runs fn until it succeeds, sleeping interval between attempts.
func retry(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		slog.Warn("database connection failed, retrying", "attempt", attempt, "retry_in", interval.String(), "error", err)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("connect database: %w (last error: %v)", ctx.Err(), err)
		case <-timer.C:
		}
	}
}
