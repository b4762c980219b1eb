package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
)

// Health reports 503 when ping fails.
func Health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		if ping != nil {
			if err := ping(ctx); err != nil {
				logging.For(c, "HEALTH").Error().Err(err).Msg("database ping failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
