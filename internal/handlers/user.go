package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Daffariandhika/ReadUniverse/internal/identity"
	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

func GetUserByUID(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "USER")

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByUID(ctx, c.Param("uid"))
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error", err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func ListUsers(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "USER")

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := users.List(ctx)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while fetching data", err)
			return
		}
		if len(list) == 0 {
			respondMessage(c, http.StatusNotFound, "No users found")
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func DeleteUser(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "USER")

		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		deleted, err := users.Delete(ctx, id)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while deleting User", err)
			return
		}
		if deleted == 0 {
			respondMessage(c, http.StatusNotFound, "User not found for deletion")
			return
		}

		log.Info().Str("userId", id.Hex()).Msg("user deleted")
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully", "deletedCount": deleted})
	}
}

// DeleteIdentityUser removes the account from the identity provider only;
// the Mongo document is deleted separately through DeleteUser.
func DeleteIdentityUser(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "USER")

		ctx, cancel := requestContext(c)
		defer cancel()

		uid := c.Param("uid")
		if err := provider.DeleteUser(ctx, uid); err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred while deleting User", err)
			return
		}

		log.Info().Str("uid", uid).Msg("identity user deleted")
		respondMessage(c, http.StatusOK, "User deleted successfully")
	}
}
