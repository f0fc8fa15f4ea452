package service

import (
	"chat_gateway/internal/config"
	"chat_gateway/internal/repository"
	"chat_gateway/internal/storage"
	"chat_gateway/pkg/logger"
)

type Services struct {
	Room      RoomService
	Message   MessageService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, files storage.FileStorage, cfg *config.Config, log logger.Logger) *Services {
	return &Services{
		Room:      NewRoomService(repos.Room, log),
		Message:   NewMessageService(repos, files, log),
		RateLimit: NewRateLimitService(repos.RateLimit, cfg.RateLimit, log),
	}
}
