package handler

import (
	"chat_gateway/internal/config"
	"chat_gateway/internal/gateway"
	"chat_gateway/internal/service"
	"chat_gateway/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Chat      *ChatHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, gw *gateway.Gateway, hub *gateway.Hub, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(cfg.Backplane.NodeID, hub),
		Chat:      NewChatHandler(services.Room, services.Message, log),
		WebSocket: NewWebSocketHandler(gw, hub, cfg.Gateway, log),
	}
}
