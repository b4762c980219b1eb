package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	return ensureIndexes(db.Collection(UsersCollection), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("uid_index"),
		},
		{
			Keys:    bson.D{{Key: "order.orderId", Value: 1}},
			Options: options.Index().SetName("order_orderId_index"),
		},
	})
}

func EnsureBookIndexes(db *mongo.Database) error {
	return ensureIndexes(db.Collection(BooksCollection), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetName("owner_index"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_index"),
		},
		{
			Keys:    bson.D{{Key: "likes", Value: -1}},
			Options: options.Index().SetName("likes_desc_index"),
		},
	})
}

func EnsureNotificationIndexes(db *mongo.Database) error {
	return ensureIndexes(db.Collection(NotificationsCollection), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "uid", Value: 1},
				{Key: "read", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("uid_read_timestamp_index"),
		},
	})
}

func ensureIndexes(coll *mongo.Collection, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := log.With().Str("component", "INDEX").Str("collection", coll.Name()).Logger()
	logger.Debug().Int("count", len(models)).Msg("creating indexes")

	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		logger.Error().Err(err).Msg("index creation failed")
		return err
	}
	logger.Info().Strs("indexes", names).Msg("indexes ensured")
	return nil
}
