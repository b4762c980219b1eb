package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/models"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

// SessionIssuer is satisfied by *session.Issuer.
type SessionIssuer interface {
	Issue(userID, uid, email string) (string, error)
}

var now = time.Now

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UID      string `json:"uid"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CheckUsernameRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type AvailabilityRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UpdatePasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Signup(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "AUTH")

		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Password == "" {
			respondMessage(c, http.StatusBadRequest, "Password is required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := users.FindByEmail(ctx, req.Email); err == nil {
			respondMessage(c, http.StatusBadRequest, "User already exists with this email")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred during signup", err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred during signup", err)
			return
		}

		user := models.NewUser(req.UID, req.Username, req.Email, string(hash), now())
		id, err := users.Create(ctx, user)
		if errors.Is(err, store.ErrDuplicate) {
			respondMessage(c, http.StatusBadRequest, "User already exists with this email")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred during signup", err)
			return
		}

		log.Info().Str("userId", id.Hex()).Msg("user registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "userId": id})
	}
}

func Login(users store.UserStore, sessions SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "AUTH")

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByEmail(ctx, req.Email)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusBadRequest, "User not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred during login", err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Debug().Str("userId", user.ID.Hex()).Msg("login rejected")
			respondMessage(c, http.StatusBadRequest, "Invalid password")
			return
		}

		token, err := sessions.Issue(user.ID.Hex(), user.UID, "")
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "An error occurred during login", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
	}
}

func CheckUsername(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "AUTH")

		var req CheckUsernameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByEmail(ctx, req.Email)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Server error.", err)
			return
		}

		if !strings.EqualFold(user.Username, req.Username) {
			respondMessage(c, http.StatusBadRequest, "Username does not match")
			return
		}

		c.JSON(http.StatusOK, gin.H{"exists": true})
	}
}

// AvailabilityCheck reports username and email collisions independently,
// matching each case-insensitively against the whole stored value.
func AvailabilityCheck(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "AUTH")

		var req AvailabilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Username == "" && req.Email == "" {
			respondMessage(c, http.StatusBadRequest, "Username or email is required.")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		conflicts := gin.H{}
		if req.Username != "" {
			taken, err := users.UsernameTaken(ctx, req.Username)
			if err != nil {
				respondWithError(c, log, http.StatusInternalServerError, "Server error.", err)
				return
			}
			if taken {
				conflicts["username"] = "Username is already taken."
			}
		}
		if req.Email != "" {
			taken, err := users.EmailTaken(ctx, req.Email)
			if err != nil {
				respondWithError(c, log, http.StatusInternalServerError, "Server error.", err)
				return
			}
			if taken {
				conflicts["email"] = "Email is already registered."
			}
		}

		if len(conflicts) > 0 {
			c.JSON(http.StatusConflict, gin.H{"errors": conflicts})
			return
		}
		respondMessage(c, http.StatusOK, "Username and email are available.")
	}
}

func UpdatePassword(users store.UserStore, sessions SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logging.For(c, "AUTH")

		var req UpdatePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Email == "" || req.Password == "" {
			respondMessage(c, http.StatusBadRequest, "Email and password are required")
			return
		}
		email := strings.ToLower(req.Email)

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error", err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		modified, err := users.UpdatePassword(ctx, email, string(hash))
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error", err)
			return
		}
		if modified == 0 {
			respondMessage(c, http.StatusNotFound, "User not found or password not updated")
			return
		}

		user, err := users.FindByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error", err)
			return
		}

		token, err := sessions.Issue(user.ID.Hex(), user.UID, user.Email)
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, "Internal server error", err)
			return
		}

		log.Info().Str("userId", user.ID.Hex()).Msg("password updated")
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully", "token": token})
	}
}
