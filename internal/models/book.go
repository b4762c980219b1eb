package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	AuthorName    string             `bson:"authorName" json:"authorName"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL      string             `bson:"imageURL" json:"imageURL"`
	BookPDFURL    string             `bson:"bookPDFURL,omitempty" json:"bookPDFURL,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	Stock         int                `bson:"stock" json:"stock"`
	Likes         int                `bson:"likes" json:"likes"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	Category      CategoryList       `bson:"category" json:"category"`
	Owner         primitive.ObjectID `bson:"owner,omitempty" json:"owner,omitempty"`
}

// CartItem is a cart line joined with the book fields the cart view renders.
type CartItem struct {
	BookID     primitive.ObjectID `json:"bookId"`
	Quantity   int                `json:"quantity"`
	ID         primitive.ObjectID `json:"_id"`
	Title      string             `json:"title"`
	AuthorName string             `json:"authorName"`
	Price      float64            `json:"price"`
	ImageURL   string             `json:"imageURL"`
}

func NewCartItem(line CartLine, b Book) CartItem {
	return CartItem{
		BookID:     line.BookID,
		Quantity:   line.Quantity,
		ID:         b.ID,
		Title:      b.Title,
		AuthorName: b.AuthorName,
		Price:      b.Price,
		ImageURL:   b.ImageURL,
	}
}
