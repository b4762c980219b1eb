package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/models"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

type AddReviewRequest struct {
	Review models.Review `json:"review"`
}

// Feedback is a review flattened with its author's avatar.
type Feedback struct {
	models.Review
	ProfileImage string `json:"profileImage"`
}

func AddReview(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "REVIEW")

		var req AddReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		review := req.Review
		review.ID = primitive.NewObjectID()

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.PushReview(ctx, c.Param("uid"), review)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found.")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while adding the review.", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Review added successfully.",
			"review":  review,
			"user":    user,
		})
	}
}

func AllFeedback(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "REVIEW")

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := users.List(ctx)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching feedback", err)
			return
		}

		feedback := make([]Feedback, 0)
		for _, u := range list {
			for _, r := range u.Reviews {
				feedback = append(feedback, Feedback{Review: r, ProfileImage: u.ProfileImage})
			}
		}
		if len(feedback) == 0 {
			respondMessage(c, http.StatusNotFound, "No feedback found")
			return
		}

		c.JSON(http.StatusOK, feedback)
	}
}
