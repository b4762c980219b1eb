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

type MongoBooks struct {
	coll *mongo.Collection
}

func NewBooks(db *mongo.Database) *MongoBooks {
	return &MongoBooks{coll: db.Collection(database.BooksCollection)}
}

func (s *MongoBooks) Insert(ctx context.Context, books []models.Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(books))
	for _, b := range books {
		docs = append(docs, b)
	}
	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoBooks) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&book); err != nil {
		return nil, notFound(err)
	}
	return &book, nil
}

func (s *MongoBooks) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoBooks) List(ctx context.Context) ([]models.Book, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoBooks) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Book, error) {
	return s.find(ctx, bson.M{"owner": owner})
}

// ListByCategory matches category against the array elements; an empty
// category lists everything.
func (s *MongoBooks) ListByCategory(ctx context.Context, category string) ([]models.Book, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return s.find(ctx, filter)
}

func (s *MongoBooks) TopLiked(ctx context.Context, limit int64) ([]models.Book, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "likes", Value: -1}}).
		SetLimit(limit)
	return s.find(ctx, bson.M{}, opts)
}

func (s *MongoBooks) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Book, error) {
	cursor, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	books := make([]models.Book, 0)
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Update applies set with upsert semantics.
func (s *MongoBooks) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount > 0,
	}, nil
}

func (s *MongoBooks) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoBooks) IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"likes": delta}})
	return err
}

func (s *MongoBooks) Likes(ctx context.Context, id primitive.ObjectID) (int, error) {
	var book models.Book
	err := s.coll.FindOne(ctx,
		bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"likes": 1}),
	).Decode(&book)
	if err != nil {
		return 0, notFound(err)
	}
	return book.Likes, nil
}

func (s *MongoBooks) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *MongoBooks) CountDistinctCategories(ctx context.Context) (int64, error) {
	return countPipeline(ctx, s.coll, mongo.Pipeline{
		{{Key: "$unwind", Value: "$category"}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$category"}}}},
	})
}

func (s *MongoBooks) CountDistinctAuthors(ctx context.Context) (int64, error) {
	return countPipeline(ctx, s.coll, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$authorName"}}}},
	})
}

func (s *MongoBooks) TotalStock(ctx context.Context) (int64, error) {
	return sumPipeline(ctx, s.coll, sumOf("stock"), "total")
}

func (s *MongoBooks) TotalLikes(ctx context.Context) (int64, error) {
	return sumPipeline(ctx, s.coll, sumOf("likes"), "total")
}

func sumOf(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + field}}},
		}}},
	}
}
