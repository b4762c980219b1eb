package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
)

// Counter is any store aggregate that yields a single number.
type Counter func(ctx context.Context) (int64, error)

// Stat answers {key: n}. Every request runs the aggregation afresh.
func Stat(key string, count Counter, failure string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "STATS")

		ctx, cancel := requestContext(c)
		defer cancel()

		n, err := count(ctx)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, failure, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{key: n})
	}
}
