package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/session"
)

const (
	UserIDKey = "userId"
	UIDKey    = "uid"
)

// TokenParser is satisfied by *session.Issuer.
type TokenParser interface {
	Parse(raw string) (*session.Claims, error)
}

// Authenticate validates the session token and injects userId (ObjectID) and
// uid into the context.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "AUTH")

		raw := bearerToken(c)
		if raw == "" {
			log.Debug().Msg("missing token")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "No token provided"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			if errors.Is(err, session.ErrMissingClaims) {
				log.Warn().Msg("token payload missing userId or uid")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid token payload"})
				return
			}
			log.Warn().Err(err).Msg("token validation failed")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			log.Warn().Str("userId", claims.UserID).Msg("userId claim is not an object id")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid token payload"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UIDKey, claims.UID)
		c.Next()
	}
}

// bearerToken returns the second space-separated field of the
// Authorization header. The scheme word itself is not checked.
func bearerToken(c *gin.Context) string {
	parts := strings.Split(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
