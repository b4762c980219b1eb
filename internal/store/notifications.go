package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Daffariandhika/ReadUniverse/internal/database"
	"github.com/Daffariandhika/ReadUniverse/internal/models"
)

type MongoNotifications struct {
	coll *mongo.Collection
}

func NewNotifications(db *mongo.Database) *MongoNotifications {
	return &MongoNotifications{coll: db.Collection(database.NotificationsCollection)}
}

func (s *MongoNotifications) Create(ctx context.Context, n models.Notification) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, n)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// ListByUID returns the user's notifications with the given read flag,
// newest first.
func (s *MongoNotifications) ListByUID(ctx context.Context, uid string, read bool) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"uid": uid, "read": read}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]models.Notification, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoNotifications) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoNotifications) MarkRead(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s *MongoNotifications) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"uid": uid, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
