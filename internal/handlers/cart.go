package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/metrics"
	"github.com/Daffariandhika/ReadUniverse/internal/models"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

type cartBookRequest struct {
	BookID string `json:"bookId"`
}

type cartUpdateRequest struct {
	BookID   string `json:"bookId"`
	Quantity *int   `json:"quantity"`
}

// bindBookID reads bookId from the body. missing is the 400 message used
// when the field is absent; a malformed id gets "Invalid id".
func bindBookID(c *gin.Context, req *cartBookRequest, missing string) (primitive.ObjectID, bool) {
	if err := bindOptionalJSON(c, req); err != nil {
		respondValidationError(c, err)
		return primitive.NilObjectID, false
	}
	if req.BookID == "" {
		respondMessage(c, http.StatusBadRequest, missing)
		return primitive.NilObjectID, false
	}
	id, err := store.ParseID(req.BookID)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// AddToCart increments an existing line or appends a new one with quantity 1.
func AddToCart(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "CART")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}
		var req cartBookRequest
		bookID, ok := bindBookID(c, &req, "Book ID is required.")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found.")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Failed to add book to cart.", err)
			return
		}

		if hasCartLine(user.Cart, bookID) {
			updated, err := users.IncrementCartLine(ctx, userID, bookID)
			if err != nil || !updated {
				respondWithError(c, log, http.StatusInternalServerError, "Failed to update cart.", err)
				return
			}
			metrics.CartMutation("increment")
			respondMessage(c, http.StatusOK, "Book quantity updated in cart.")
			return
		}

		added, err := users.AppendCartLine(ctx, userID, bookID)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Failed to add book to cart.", err)
			return
		}
		if !added {
			// A concurrent request appended the line first.
			if updated, err := users.IncrementCartLine(ctx, userID, bookID); err != nil || !updated {
				respondWithError(c, log, http.StatusInternalServerError, "Failed to add book to cart.", err)
				return
			}
			metrics.CartMutation("increment")
			respondMessage(c, http.StatusOK, "Book quantity updated in cart.")
			return
		}

		metrics.CartMutation("add")
		respondMessage(c, http.StatusOK, "Book added to cart.")
	}
}

func hasCartLine(cart []models.CartLine, bookID primitive.ObjectID) bool {
	for _, line := range cart {
		if line.BookID == bookID {
			return true
		}
	}
	return false
}

func RemoveFromCart(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "CART")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}
		var req cartBookRequest
		bookID, ok := bindBookID(c, &req, "Book ID is required")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		removed, err := users.RemoveCartLine(ctx, userID, bookID)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while removing from the cart", err)
			return
		}
		if !removed {
			respondMessage(c, http.StatusNotFound, "Book not found in cart or user not found")
			return
		}

		metrics.CartMutation("remove")
		respondMessage(c, http.StatusOK, "Book removed from cart successfully")
	}
}

// UpdateCartQuantity sets the line quantity as given. Bounds are left to the
// client.
func UpdateCartQuantity(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "CART")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}

		var req cartUpdateRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.BookID == "" || req.Quantity == nil {
			respondMessage(c, http.StatusBadRequest, "Book ID and quantity are required")
			return
		}
		bookID, err := store.ParseID(req.BookID)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid id")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := users.SetCartQuantity(ctx, userID, bookID, *req.Quantity)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while updating the cart", err)
			return
		}
		if !updated {
			respondMessage(c, http.StatusNotFound, "Book not found in cart or user not found")
			return
		}

		metrics.CartMutation("set")
		respondMessage(c, http.StatusOK, "Cart updated successfully")
	}
}

// GetCart joins each cart line with its book. Lines whose book no longer
// exists are dropped.
func GetCart(users store.UserStore, books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "CART")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"cart": []models.CartItem{}, "subtotal": 0})
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching the cart.", err)
			return
		}

		items := make([]models.CartItem, 0, len(user.Cart))
		subtotal := decimal.Zero
		for _, line := range user.Cart {
			book, err := books.FindByID(ctx, line.BookID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching the cart.", err)
				return
			}
			items = append(items, models.NewCartItem(line, *book))
			subtotal = subtotal.Add(decimal.NewFromFloat(book.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		total, _ := subtotal.Round(2).Float64()
		c.JSON(http.StatusOK, gin.H{"cart": items, "subtotal": total})
	}
}
