package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/services"
	"adopte-server/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const readTimeout = 60 * time.Second

type Handler struct {
	auth       *services.AuthService
	hub        *Hub
	authorizer *ChannelAuthorizer
}

func NewHandler(auth *services.AuthService, hub *Hub, authorizer *ChannelAuthorizer) *Handler {
	return &Handler{auth: auth, hub: hub, authorizer: authorizer}
}

// clientFrame is the only inbound message shape the socket accepts.
// Anything else is ignored.
type clientFrame struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// Connect upgrades the request and pins the connection to the channels
// the caller's role entitles it to. The access token rides the query
// string since browsers cannot set headers on websocket upgrades.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	claims, err := h.auth.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	role := domain.Role(claims.Role)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, userID, role)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	for _, channel := range h.authorizer.DefaultChannels(userID, role) {
		h.hub.Subscribe(client, channel)
	}
	go client.WriteLoop(ctx)

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		switch frame.Action {
		case "subscribe":
			if h.authorizer.CanSubscribe(userID, role, frame.Channel) {
				h.hub.Subscribe(client, frame.Channel)
			}
		case "unsubscribe":
			h.hub.Unsubscribe(client, frame.Channel)
		}
	}

	h.hub.Unregister(client)
}
