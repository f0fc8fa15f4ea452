package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chat_gateway/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Ключ hash с позициями чтения комнаты: поле - user id
const ReadMarkersKeyPrefix = "chat:room:%s:read"

type ReadMarker struct {
	MessageID string    `json:"messageId"`
	ReadAt    time.Time `json:"readAt"`
}

type ReadMarkerRepository interface {
	// Set перезаписывает позицию пользователя, повторный вызов безопасен
	Set(ctx context.Context, roomID, userID string, marker ReadMarker) error
	// Get возвращает nil, если пользователь еще ничего не читал
	Get(ctx context.Context, roomID, userID string) (*ReadMarker, error)
}

type readMarkerRepository struct {
	rdb *redis.Client
	log logger.Logger
}

func NewReadMarkerRepository(rdb *redis.Client, log logger.Logger) ReadMarkerRepository {
	return &readMarkerRepository{rdb: rdb, log: log}
}

func (r *readMarkerRepository) key(roomID string) string {
	return fmt.Sprintf(ReadMarkersKeyPrefix, roomID)
}

func (r *readMarkerRepository) Set(ctx context.Context, roomID, userID string, marker ReadMarker) error {
	value, err := json.Marshal(marker)
	if err != nil {
		return fmt.Errorf("failed to marshal read marker: %w", err)
	}

	if err := r.rdb.HSet(ctx, r.key(roomID), userID, value).Err(); err != nil {
		r.log.Error("Failed to set read marker", "error", err, "room_id", roomID, "user_id", userID)
		return fmt.Errorf("failed to set read marker: %w", err)
	}

	return nil
}

func (r *readMarkerRepository) Get(ctx context.Context, roomID, userID string) (*ReadMarker, error) {
	value, err := r.rdb.HGet(ctx, r.key(roomID), userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to get read marker", "error", err, "room_id", roomID, "user_id", userID)
		return nil, fmt.Errorf("failed to get read marker: %w", err)
	}

	var marker ReadMarker
	if err := json.Unmarshal(value, &marker); err != nil {
		return nil, fmt.Errorf("failed to unmarshal read marker: %w", err)
	}
	return &marker, nil
}
