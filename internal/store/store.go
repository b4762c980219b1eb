// Package store holds the MongoDB operations behind each collection. Every
// method is a single driver call or a short fixed sequence of them; none of
// them spans documents atomically.
package store

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Daffariandhika/ReadUniverse/internal/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid object id")
	ErrDuplicate = errors.New("duplicate key")
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) (int64, error)

	IncrementCartLine(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error)
	AppendCartLine(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error)
	RemoveCartLine(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error)
	SetCartQuantity(ctx context.Context, userID, bookID primitive.ObjectID, quantity int) (bool, error)

	PlaceOrder(ctx context.Context, userID primitive.ObjectID, order models.Order) (bool, error)
	SetOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (bool, error)
	SetOwnOrderStatus(ctx context.Context, userID primitive.ObjectID, orderID string, from []models.OrderStatus, to models.OrderStatus) (bool, error)
	PullOrder(ctx context.Context, orderID string) (bool, error)
	PullOwnOrder(ctx context.Context, userID primitive.ObjectID, orderID string) (bool, error)

	AddLikedBook(ctx context.Context, userID, bookID primitive.ObjectID) error
	RemoveLikedBook(ctx context.Context, userID, bookID primitive.ObjectID) error

	PushReview(ctx context.Context, uid string, review models.Review) (*models.User, error)

	Count(ctx context.Context) (int64, error)
	CountDistinctReviews(ctx context.Context) (int64, error)
	CountDistinctOrders(ctx context.Context) (int64, error)
}

type BookStore interface {
	Insert(ctx context.Context, books []models.Book) (int, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Book, error)
	ListByCategory(ctx context.Context, category string) ([]models.Book, error)
	TopLiked(ctx context.Context, limit int64) ([]models.Book, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int) error
	Likes(ctx context.Context, id primitive.ObjectID) (int, error)

	Count(ctx context.Context) (int64, error)
	CountDistinctCategories(ctx context.Context) (int64, error)
	CountDistinctAuthors(ctx context.Context) (int64, error)
	TotalStock(ctx context.Context) (int64, error)
	TotalLikes(ctx context.Context) (int64, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n models.Notification) (primitive.ObjectID, error)
	ListByUID(ctx context.Context, uid string, read bool) ([]models.Notification, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) (int64, error)
	MarkAllRead(ctx context.Context, uid string) (int64, error)
}

// UpdateResult is the subset of mongo.UpdateResult callers inspect.
type UpdateResult struct {
	Matched  int64
	Modified int64
	Upserted bool
}

// ParseID converts a hex string into an ObjectID, mapping failures to ErrInvalidID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// exactFold matches value case-insensitively as a whole string. The input is
// quoted so user-supplied regex metacharacters are literal.
func exactFold(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// countPipeline runs an aggregation whose last stage is {$count: "n"}.
func countPipeline(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) (int64, error) {
	pipeline = append(pipeline, bson.D{{Key: "$count", Value: "n"}})
	return sumPipeline(ctx, coll, pipeline, "n")
}

// sumPipeline runs pipeline and reads the numeric field from its only result.
func sumPipeline(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, field string) (int64, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return toInt64(rows[0][field]), nil
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case int:
		return int64(n)
	default:
		return 0
	}
}
