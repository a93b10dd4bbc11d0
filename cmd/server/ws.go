package main

import (
	"context"
	"log"
	"net/http"

	"blackjack-platform/backend/internal/server/messages"
	ws "blackjack-platform/backend/internal/server/websocket"
	"blackjack-platform/backend/internal/validation"

	"github.com/gin-gonic/gin"
)

// handleGameSocket upgrades the connection, seats the player in the session
// and pumps inbound actions into the coordinator until the socket drops.
func (s *Server) handleGameSocket(c *gin.Context) {
	identity, err := s.authService.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	url := c.Param("url")
	record, err := s.catalog.Get(url)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("[WS] Upgrade error:", err)
		return
	}

	client := ws.NewClient(conn, identity.UserID, identity.Username)
	group := ws.GameGroup(url)
	s.hub.Join(group, client)
	go client.WritePump()

	joined, err := s.coordinator.HandleJoin(context.Background(), url, client.ConnID, identity.Username, record.CreatorName)
	if err != nil || !joined {
		if err != nil {
			log.Printf("[WS] Join failed for %s on game %s: %v", identity.Username, url, err)
		}
		s.hub.Leave(group, client)
		client.Close()
		return
	}

	client.ReadPump(func(data []byte) {
		s.handleGameMessage(client, url, data)
	})

	// Socket closed. Vacate the seat before dropping the client from the hub
	// so the departure broadcast reaches the remaining players.
	if err := s.coordinator.HandleLeave(context.Background(), url, client.ConnID); err != nil {
		log.Printf("[WS] Leave failed for %s on game %s: %v", identity.Username, url, err)
	}
	s.hub.Leave(group, client)
	client.Close()
}

func (s *Server) handleGameMessage(client *ws.Client, url string, data []byte) {
	if !s.actionLimiter.AllowAction(client.ConnID) {
		log.Printf("[RATELIMIT] Dropping action from connection %s", client.ConnID)
		return
	}

	act, err := messages.Decode(data)
	if err != nil {
		log.Printf("[WS] Bad message from %s: %v", client.ConnID, err)
		return
	}

	ctx := context.Background()
	switch a := act.(type) {
	case messages.InitGame:
		err = s.coordinator.HandleInitGame(ctx, url, client.ConnID, client.Send)
	case messages.StartGame:
		err = s.coordinator.HandleStartGame(ctx, url)
	case messages.Ready:
		err = s.coordinator.HandleReady(ctx, url, client.ConnID, a.Seat, a.Bet)
	case messages.Hit:
		err = s.coordinator.HandleHit(ctx, url, client.ConnID, a.Seat, false)
	case messages.Double:
		err = s.coordinator.HandleHit(ctx, url, client.ConnID, a.Seat, true)
	case messages.Hold:
		err = s.coordinator.HandleHold(ctx, url, client.ConnID, a.Seat)
	case messages.Chat:
		s.coordinator.HandleChat(url, client.Username, a.Message)
	}
	if err != nil {
		log.Printf("[GAME] Action failed on game %s: %v", url, err)
	}
}

// handleLobbySocket streams catalog updates to clients browsing the game
// list. Lobby clients only ever send chat.
func (s *Server) handleLobbySocket(c *gin.Context) {
	identity, err := s.authService.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("[WS] Upgrade error:", err)
		return
	}

	client := ws.NewClient(conn, identity.UserID, identity.Username)
	s.hub.Join(ws.LobbyGroup, client)
	go client.WritePump()

	client.ReadPump(func(data []byte) {
		if !s.actionLimiter.AllowAction(client.ConnID) {
			return
		}
		act, err := messages.Decode(data)
		if err != nil {
			return
		}
		chat, ok := act.(messages.Chat)
		if ok && validation.ValidateChatMessage(chat.Message) == nil {
			s.hub.Broadcast(ws.LobbyGroup, messages.NewChatMessage(identity.Username, chat.Message))
		}
	})

	s.hub.Leave(ws.LobbyGroup, client)
	client.Close()
}
