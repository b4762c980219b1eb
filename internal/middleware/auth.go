package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Daffariandhika/ReadUniverse/internal/identity"
	"github.com/Daffariandhika/ReadUniverse/internal/logging"
)

const AdminUIDKey = "adminUid"

// VerifyAdmin accepts identity-provider ID tokens that carry the admin
// custom claim.
func VerifyAdmin(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "ADMIN")

		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Unauthorized: No token provided"})
			return
		}

		token, err := provider.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			log.Warn().Err(err).Msg("id token verification failed")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Unauthorized: Invalid token"})
			return
		}

		if !token.IsAdmin() {
			log.Warn().Str("uid", token.UID).Msg("admin claim missing")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Unauthorized: Admin privileges required"})
			return
		}

		c.Set(AdminUIDKey, token.UID)
		c.Next()
	}
}
