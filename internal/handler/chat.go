package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"chat_gateway/internal/domain"
	"chat_gateway/internal/middleware"
	"chat_gateway/internal/service"
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	roomService    service.RoomService
	messageService service.MessageService
	log            logger.Logger
}

func NewChatHandler(roomService service.RoomService, messageService service.MessageService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		roomService:    roomService,
		messageService: messageService,
		log:            log,
	}
}

// GetMessages - GET /api/v1/rooms/:id/messages?limit=&before=
func (h *ChatHandler) GetMessages(c *gin.Context) {
	roomID := c.Param("id")
	userID := middleware.UserID(c)

	if _, err := h.roomService.Authorize(c.Request.Context(), roomID, userID); err != nil {
		_ = c.Error(errors.Classify(err))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			_ = c.Error(errors.Validation(fmt.Errorf("before must be an RFC 3339 timestamp")))
			return
		}
		before = &t
	}

	messages, err := h.messageService.GetMessages(c.Request.Context(), roomID, limit, before)
	if err != nil {
		_ = c.Error(errors.Classify(err))
		return
	}

	lastRead, err := h.messageService.GetReadMarker(c.Request.Context(), roomID, userID)
	if err != nil {
		// История важнее позиции чтения
		h.log.Warn("Failed to get read marker", "error", err, "room_id", roomID, "user_id", userID)
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"lastRead": lastRead,
	})
}

// GetMedia - GET /api/v1/rooms/:id/media/:type
func (h *ChatHandler) GetMedia(c *gin.Context) {
	roomID := c.Param("id")

	storageType, ok := domain.ParseStorageType(c.Param("type"))
	if !ok {
		_ = c.Error(errors.Validation(fmt.Errorf("unknown media type %q", c.Param("type"))))
		return
	}

	if _, err := h.roomService.Authorize(c.Request.Context(), roomID, middleware.UserID(c)); err != nil {
		_ = c.Error(errors.Classify(err))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	files, err := h.messageService.GetMedia(c.Request.Context(), roomID, storageType, limit)
	if err != nil {
		_ = c.Error(errors.Classify(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}
