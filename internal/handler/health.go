package handler

import (
	"net/http"

	"chat_gateway/internal/gateway"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	nodeID string
	hub    *gateway.Hub
}

func NewHealthHandler(nodeID string, hub *gateway.Hub) *HealthHandler {
	return &HealthHandler{
		nodeID: nodeID,
		hub:    hub,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"service":     "chat-gateway",
		"node_id":     h.nodeID,
		"connections": h.hub.Len(),
	})
}
