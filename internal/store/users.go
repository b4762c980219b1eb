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

type MongoUsers struct {
	coll *mongo.Collection
}

func NewUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{coll: db.Collection(database.UsersCollection)}
}

func (s *MongoUsers) Create(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *MongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *MongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUsers) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"uid": uid})
}

func (s *MongoUsers) FindByOrderID(ctx context.Context, orderID string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"order.orderId": orderID})
}

func (s *MongoUsers) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUsers) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoUsers) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, bson.M{"username": exactFold(username)})
}

func (s *MongoUsers) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, bson.M{"email": exactFold(email)})
}

func (s *MongoUsers) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoUsers) UpdatePassword(ctx context.Context, email, passwordHash string) (int64, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": passwordHash}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// IncrementCartLine bumps an existing line by one. It reports false when the
// user has no line for bookID.
func (s *MongoUsers) IncrementCartLine(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "cart.bookId": bookID},
		bson.M{"$inc": bson.M{"cart.$.quantity": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// AppendCartLine pushes a new line with quantity 1 unless one already exists.
func (s *MongoUsers) AppendCartLine(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "cart.bookId": bson.M{"$ne": bookID}},
		bson.M{"$push": bson.M{"cart": models.CartLine{BookID: bookID, Quantity: 1}}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoUsers) RemoveCartLine(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"cart": bson.M{"bookId": bookID}}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoUsers) SetCartQuantity(ctx context.Context, userID, bookID primitive.ObjectID, quantity int) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "cart.bookId": bookID},
		bson.M{"$set": bson.M{"cart.$.quantity": quantity}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// PlaceOrder appends order and empties the cart in one update command.
func (s *MongoUsers) PlaceOrder(ctx context.Context, userID primitive.ObjectID, order models.Order) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"order": order},
			"$set":  bson.M{"cart": []models.CartLine{}},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoUsers) SetOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"order.orderId": orderID},
		bson.M{"$set": bson.M{"order.$.status": status}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SetOwnOrderStatus moves one of userID's orders to `to`, only while its
// current status is one of from.
func (s *MongoUsers) SetOwnOrderStatus(ctx context.Context, userID primitive.ObjectID, orderID string, from []models.OrderStatus, to models.OrderStatus) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{
			"_id": userID,
			"order": bson.M{"$elemMatch": bson.M{
				"orderId": orderID,
				"status":  bson.M{"$in": from},
			}},
		},
		bson.M{"$set": bson.M{"order.$.status": to}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoUsers) PullOrder(ctx context.Context, orderID string) (bool, error) {
	return s.pullOrder(ctx, bson.M{"order.orderId": orderID}, orderID)
}

func (s *MongoUsers) PullOwnOrder(ctx context.Context, userID primitive.ObjectID, orderID string) (bool, error) {
	return s.pullOrder(ctx, bson.M{"_id": userID, "order.orderId": orderID}, orderID)
}

func (s *MongoUsers) pullOrder(ctx context.Context, filter bson.M, orderID string) (bool, error) {
	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"order": bson.M{"orderId": orderID}}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoUsers) AddLikedBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"likedBooks": bookID}})
	return err
}

func (s *MongoUsers) RemoveLikedBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"likedBooks": bookID}})
	return err
}

// PushReview appends review to the user identified by uid and returns the
// updated document.
func (s *MongoUsers) PushReview(ctx context.Context, uid string, review models.Review) (*models.User, error) {
	var user models.User
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"uid": uid},
		bson.M{"$push": bson.M{"reviews": review}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *MongoUsers) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *MongoUsers) CountDistinctReviews(ctx context.Context) (int64, error) {
	return countPipeline(ctx, s.coll, distinctEmbedded("reviews"))
}

func (s *MongoUsers) CountDistinctOrders(ctx context.Context) (int64, error) {
	return countPipeline(ctx, s.coll, distinctEmbedded("order"))
}

func distinctEmbedded(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$" + field}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$" + field}}}},
	}
}
