package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blackjack-platform/backend/internal/auth"
	"blackjack-platform/backend/internal/db"
	"blackjack-platform/backend/internal/models"
	"blackjack-platform/backend/internal/validation"
)

// HandleRegister handles user registration
func HandleRegister(c *gin.Context, database *db.DB, authService *auth.Service) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		PasswordHash: hash,
	}

	if err := database.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		return
	}

	token, _ := authService.GenerateToken(user.ID, user.Username)
	user.PasswordHash = ""

	c.JSON(http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

// HandleLogin handles user login
func HandleLogin(c *gin.Context, database *db.DB, authService *auth.Service) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	if err := database.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !authService.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, _ := authService.GenerateToken(user.ID, user.Username)
	user.PasswordHash = ""

	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: user})
}

// HandleGetCurrentUser returns the current authenticated user
func HandleGetCurrentUser(c *gin.Context, database *db.DB) {
	userID := c.GetString("user_id")

	var user models.User
	if err := database.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

// AuthMiddleware validates JWT tokens and sets the caller's identity in the
// request context.
func AuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		token := authHeader[7:]
		identity, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", identity.UserID)
		c.Set("username", identity.Username)
		c.Next()
	}
}
