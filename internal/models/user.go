package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultProfileImage = "https://avatarfiles.alphacoders.com/793/79317.png"
)

// CartLine is a single {bookId, quantity} entry embedded in a user's cart.
type CartLine struct {
	BookID   primitive.ObjectID `bson:"bookId" json:"bookId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Review is a feedback entry embedded in the author's user document.
type Review struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Product   string             `bson:"product" json:"product"`
	ProductID string             `bson:"productId,omitempty" json:"productId,omitempty"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	Date      string             `bson:"date,omitempty" json:"date,omitempty"`
}

// User is the account document. Cart, orders, likes and reviews are embedded.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UID           string               `bson:"uid" json:"uid"`
	Username      string               `bson:"username" json:"username"`
	Email         string               `bson:"email" json:"email"`
	PasswordHash  string               `bson:"password" json:"-"`
	Role          string               `bson:"role" json:"role"`
	ProfileImage  string               `bson:"profileImage" json:"profileImage"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	Cart          []CartLine           `bson:"cart" json:"cart"`
	Orders        []Order              `bson:"order" json:"order"`
	OrderHistory  []Order              `bson:"orderHistory" json:"orderHistory"`
	LikedBooks    []primitive.ObjectID `bson:"likedBooks" json:"likedBooks"`
	PersonalBooks []primitive.ObjectID `bson:"personalBooks" json:"personalBooks"`
	Reviews       []Review             `bson:"reviews" json:"reviews"`
}

// NewUser returns a user with every embedded array initialised so the stored
// document never carries null lists.
func NewUser(uid, username, email, passwordHash string, now time.Time) User {
	return User{
		UID:           uid,
		Username:      username,
		Email:         email,
		PasswordHash:  passwordHash,
		Role:          RoleUser,
		ProfileImage:  DefaultProfileImage,
		CreatedAt:     now,
		Cart:          []CartLine{},
		Orders:        []Order{},
		OrderHistory:  []Order{},
		LikedBooks:    []primitive.ObjectID{},
		PersonalBooks: []primitive.ObjectID{},
		Reviews:       []Review{},
	}
}

// HasLiked reports whether bookID is in the user's liked list.
func (u User) HasLiked(bookID primitive.ObjectID) bool {
	for _, id := range u.LikedBooks {
		if id == bookID {
			return true
		}
	}
	return false
}

// FindOrder returns the embedded order with the given id.
func (u User) FindOrder(orderID string) (Order, bool) {
	for _, o := range u.Orders {
		if o.OrderID == orderID {
			return o, true
		}
	}
	return Order{}, false
}
