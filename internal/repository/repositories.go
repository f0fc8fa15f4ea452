package repository

import (
	"chat_gateway/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	Room       RoomRepository
	Message    MessageRepository
	File       FileRepository
	Action     ActionRepository
	ReadMarker ReadMarkerRepository
	RateLimit  RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	repos := &Repositories{
		Room:       NewRoomRepository(db, log),
		Message:    NewMessageRepository(db, log),
		File:       NewFileRepository(db, log),
		Action:     NewActionRepository(db, log),
		ReadMarker: NewReadMarkerRepository(redis, log),
		RateLimit:  NewRateLimitRepository(redis, log),
	}

	log.Info("Repositories initialized")

	return repos
}
