// internal/websocket/handlers.go
// WebSocket connection handlers

package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleConnection handles new WebSocket connections.
func HandleConnection(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		coachID, _ := c.Get("coach_id")
		coachIDStr := ""
		if coachID != nil {
			coachIDStr = coachID.(string)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("failed to upgrade connection: %v", err)
			return
		}

		client := &Client{
			hub:     hub,
			conn:    conn,
			send:    make(chan []byte, 256),
			coachID: coachIDStr,
			games:   make([]string, 0),
		}

		if gameID := c.Query("game_id"); gameID != "" {
			client.games = append(client.games, gameID)
		}

		hub.register <- client

		welcomeMsg := Message{
			Type: "welcome",
			Data: map[string]interface{}{
				"message":  "connected to rotation planner stream",
				"coach_id": coachIDStr,
			},
		}
		if data, err := json.Marshal(welcomeMsg); err == nil {
			client.send <- data
		}

		go client.writePump()
		go client.readPump()
	}
}

// Message types for WebSocket communication.
const (
	MessageUpdate       = "update"
	MessageRotation     = "rotation"
	MessageWarning      = "warning"
	MessageEarlyWarning = "early_warning"
	MessagePeriodEnd    = "period_end"
	MessageGameEnd      = "game_end"
	MessageRecovery     = "recovery"
	MessageScore        = "score"
)
