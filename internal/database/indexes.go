package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	UsersCollection   = "users"
	CoursesCollection = "courses"
)

var requiredIndexes = map[string][]mongo.IndexModel{
	UsersCollection: {
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	},
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index is what finally guards concurrent registrations.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	if db == nil || db.Database == nil {
		return fmt.Errorf("database is not initialized")
	}

	for collection, indexes := range requiredIndexes {
		names, err := db.Database.Collection(collection).Indexes().CreateMany(ctx, indexes)
		if err != nil {
			return fmt.Errorf("create %s indexes: %w", collection, err)
		}
		slog.Info("indexes ensured", "collection", collection, "indexes", names)
	}

	return nil
}
