package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Daffariandhika/ReadUniverse/internal/middleware"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

const requestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondWithError logs err (error level for 5xx) and writes {"message": message}.
func respondWithError(c *gin.Context, log *zerolog.Logger, status int, message string, err error) {
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Int("status", status).Msg(message)
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
}

// bindOptionalJSON binds the body into obj, treating an empty body as an
// empty object.
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// currentUser returns the identity set by middleware.Authenticate.
func currentUser(c *gin.Context) (primitive.ObjectID, string, bool) {
	value, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	return userID, c.GetString(middleware.UIDKey), true
}

// pathID parses the named path parameter as an ObjectID and writes a 400
// when it is malformed.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := store.ParseID(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func requireUser(c *gin.Context) (primitive.ObjectID, string, bool) {
	userID, uid, ok := currentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid token payload"})
	}
	return userID, uid, ok
}
