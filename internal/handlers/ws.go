package handlers

import (
	"log"
	"net/http"

	"skywatch/internal/auth"
	"skywatch/internal/notifications"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades authenticated clients to a websocket and parks them
// on the notification hub so accepted notifications reach them live.
type WSHandler struct {
	tokens *auth.TokenService
	hub    *notifications.Hub

	upgrader websocket.Upgrader
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(tokens *auth.TokenService, hub *notifications.Hub) *WSHandler {
	return &WSHandler{
		tokens: tokens,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve handles GET /ws. Browsers cannot set an Authorization header on a
// websocket handshake, so the token also rides in the query string.
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authorization required",
		})
		return
	}

	userID, err := h.tokens.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid token",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(userID, conn)
	defer func() {
		h.hub.Unregister(userID, conn)
		conn.Close()
	}()

	// The server only pushes; the read loop just waits for the peer to go
	// away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
