package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/models"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

const topBooksLimit = 15

type UpdateBookRequest struct {
	Title         *string              `json:"title"`
	AuthorName    *string              `json:"authorName"`
	Description   *string              `json:"description"`
	ImageURL      *string              `json:"imageURL"`
	BookPDFURL    *string              `json:"bookPDFURL"`
	Price         *float64             `json:"price"`
	Stock         *int                 `json:"stock"`
	AverageRating *float64             `json:"averageRating"`
	Category      *models.CategoryList `json:"category"`
}

func (r UpdateBookRequest) toSet() bson.M {
	set := bson.M{}
	if r.Title != nil {
		set["title"] = *r.Title
	}
	if r.AuthorName != nil {
		set["authorName"] = *r.AuthorName
	}
	if r.Description != nil {
		set["description"] = *r.Description
	}
	if r.ImageURL != nil {
		set["imageURL"] = *r.ImageURL
	}
	if r.BookPDFURL != nil {
		set["bookPDFURL"] = *r.BookPDFURL
	}
	if r.Price != nil {
		set["price"] = *r.Price
	}
	if r.Stock != nil {
		set["stock"] = *r.Stock
	}
	if r.AverageRating != nil {
		set["averageRating"] = *r.AverageRating
	}
	if r.Category != nil {
		set["category"] = *r.Category
	}
	return set
}

// decodeBooks accepts either a single book object or an array of them.
func decodeBooks(raw []byte) ([]models.Book, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var books []models.Book
		if err := json.Unmarshal(raw, &books); err != nil {
			return nil, err
		}
		return books, nil
	}
	var book models.Book
	if err := json.Unmarshal(raw, &book); err != nil {
		return nil, err
	}
	return []models.Book{book}, nil
}

// UploadBooks stores one or many books owned by the caller. Any owner or id
// in the body is ignored.
func UploadBooks(books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "BOOK")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}

		raw, err := c.GetRawData()
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid body")
			return
		}
		list, err := decodeBooks(raw)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid body")
			return
		}
		for i := range list {
			list[i].ID = primitive.NilObjectID
			list[i].Owner = userID
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		inserted, err := books.Insert(ctx, list)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while inserting data", err)
			return
		}

		log.Info().Int("count", inserted).Msg("books uploaded")
		c.JSON(http.StatusCreated, gin.H{"message": "Books inserted successfully", "insertedCount": inserted})
	}
}

// UserBooks lists every book for the super admin and the caller's own books
// for everyone else.
func UserBooks(books store.BookStore, superAdminID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "BOOK")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var (
			list []models.Book
			err  error
		)
		if superAdminID != "" && userID.Hex() == superAdminID {
			list, err = books.List(ctx)
		} else {
			list, err = books.ListByOwner(ctx, userID)
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Failed to fetch books", err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func AllBooks(books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "BOOK")

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := books.List(ctx)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching data", err)
			return
		}
		if len(list) == 0 {
			respondMessage(c, http.StatusNotFound, "No books found")
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func GetBook(books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "BOOK")

		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		book, err := books.FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "Book not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching data", err)
			return
		}

		c.JSON(http.StatusOK, book)
	}
}

// UpdateBook applies the provided fields with upsert semantics.
func UpdateBook(books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "BOOK")

		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req UpdateBookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		set := req.toSet()
		if len(set) == 0 {
			respondMessage(c, http.StatusBadRequest, "No fields to update")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := books.Update(ctx, id, set)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while updating data", err)
			return
		}
		if res.Matched == 0 && !res.Upserted {
			respondMessage(c, http.StatusNotFound, "Book not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Book updated successfully", "modifiedCount": res.Modified})
	}
}

func DeleteBook(books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "BOOK")

		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		deleted, err := books.Delete(ctx, id)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while deleting data", err)
			return
		}
		if deleted == 0 {
			respondMessage(c, http.StatusNotFound, "Book not found for deletion")
			return
		}

		log.Info().Str("bookId", id.Hex()).Msg("book deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully", "deletedCount": deleted})
	}
}

func BooksByCategory(books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "BOOK")
		category := c.Query("category")

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := books.ListByCategory(ctx, category)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching data", err)
			return
		}
		if len(list) == 0 {
			respondMessage(c, http.StatusNotFound, fmt.Sprintf("No books found in category '%s'", category))
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func TopBooks(books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "BOOK")

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := books.TopLiked(ctx, topBooksLimit)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching top books", err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}
