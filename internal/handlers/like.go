package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/metrics"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

func LikedBookIDs(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "LIKE")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error.", err)
			return
		}

		liked := user.LikedBooks
		if liked == nil {
			liked = []primitive.ObjectID{}
		}
		c.JSON(http.StatusOK, gin.H{"likedBooks": liked})
	}
}

func LikedBooks(users store.UserStore, books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "LIKE")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error.", err)
			return
		}

		list, err := books.FindByIDs(ctx, user.LikedBooks)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error.", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"likedBooks": list})
	}
}

// ToggleLike flips the caller's like on a book. The user's liked list and the
// book counter are written separately.
func ToggleLike(users store.UserStore, books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "LIKE")

		userID, _, ok := requireUser(c)
		if !ok {
			return
		}
		bookID, ok := pathID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred.", err)
			return
		}
		book, err := books.FindByID(ctx, bookID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred.", err)
			return
		}
		if user == nil || book == nil {
			respondMessage(c, http.StatusNotFound, "User or Book not found")
			return
		}

		wasLiked := user.HasLiked(bookID)
		delta := 1
		if wasLiked {
			err = users.RemoveLikedBook(ctx, userID, bookID)
			delta = -1
		} else {
			err = users.AddLikedBook(ctx, userID, bookID)
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred.", err)
			return
		}
		if err := books.IncrementLikes(ctx, bookID, delta); err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred.", err)
			return
		}

		likes, err := books.Likes(ctx, bookID)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred.", err)
			return
		}

		metrics.LikeToggled(!wasLiked)
		c.JSON(http.StatusOK, gin.H{"liked": !wasLiked, "likes": likes})
	}
}

func BookLikes(books store.BookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "LIKE")

		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		likes, err := books.Likes(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "Book not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching likes", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"likes": likes})
	}
}
