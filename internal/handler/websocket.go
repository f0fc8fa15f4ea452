package handler

import (
	"context"
	"net/http"

	"chat_gateway/internal/config"
	"chat_gateway/internal/domain"
	"chat_gateway/internal/gateway"
	"chat_gateway/internal/middleware"
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	gw  *gateway.Gateway
	hub *gateway.Hub
	cfg config.GatewayConfig
	log logger.Logger
}

func NewWebSocketHandler(gw *gateway.Gateway, hub *gateway.Hub, cfg config.GatewayConfig, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		gw:  gw,
		hub: hub,
		cfg: cfg,
		log: log,
	}
}

// HandleChat - GET /ws/chat и /ws/chat/:id. Комнаты из пути и ?room= подключаются сразу,
// остальные - после первого успешного события в комнате.
func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	rooms := lo.Filter(lo.Uniq(append([]string{c.Param("id")}, c.QueryArray("room")...)), func(roomID string, _ int) bool {
		return roomID != ""
	})

	// Комнаты подключаются до upgrade: к моменту ответа 101 подключение уже получает рассылку
	client := NewClient(nil, userID, h.cfg.SendBufferSize, h.log)
	h.hub.Register(client)

	ctx := context.WithoutCancel(c.Request.Context())
	for _, roomID := range rooms {
		if err := h.gw.Join(ctx, client, roomID); err != nil {
			client.Send(domain.NewErrorEvent(errors.Message(err)))
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		h.hub.Unregister(client.ID())
		client.Close()
		return
	}
	client.conn = conn
	h.log.Info("Client connected", "conn_id", client.ID(), "user_id", userID, "connections", h.hub.Len())

	go client.writePump(h.cfg.PongWait*9/10, h.cfg.WriteWait)

	client.readPump(h.cfg.MaxFrameSize, h.cfg.PongWait, func(frame domain.InboundFrame) {
		h.gw.Dispatch(ctx, client, frame)
	})

	h.hub.Unregister(client.ID())
	client.Close()
	h.log.Info("Client disconnected", "conn_id", client.ID(), "user_id", userID)
}
