package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blackjack-platform/backend/internal/catalog"
)

// HandleListSessions returns the joinable sessions for the lobby page.
func HandleListSessions(c *gin.Context, cat *catalog.Service, maxSeats int) {
	sessions, err := cat.ListOpen(maxSeats)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// HandleCreateSession registers a new session record and hands back its url.
// The live game state materializes in the store when the creator's socket
// joins.
func HandleCreateSession(c *gin.Context, cat *catalog.Service) {
	userID := c.GetString("user_id")
	username := c.GetString("username")

	url := uuid.New().String()
	session, err := cat.Create(url, userID, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, session)
}
