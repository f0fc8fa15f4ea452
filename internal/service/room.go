package service

import (
	"context"

	"chat_gateway/internal/domain"
	"chat_gateway/internal/repository"
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"
)

// RoomService - каталог комнат для шлюза и REST ручек
type RoomService interface {
	GetParticipantsByRoom(ctx context.Context, roomID string) (*domain.Room, error)
	// Authorize возвращает снимок комнаты, если userID в ней состоит
	Authorize(ctx context.Context, roomID, userID string) (*domain.Room, error)
}

type roomService struct {
	roomRepo repository.RoomRepository
	log      logger.Logger
}

func NewRoomService(roomRepo repository.RoomRepository, log logger.Logger) RoomService {
	return &roomService{
		roomRepo: roomRepo,
		log:      log,
	}
}

func (s *roomService) GetParticipantsByRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	if roomID == "" {
		return nil, nil
	}
	return s.roomRepo.GetParticipantsByRoom(ctx, roomID)
}

func (s *roomService) Authorize(ctx context.Context, roomID, userID string) (*domain.Room, error) {
	room, err := s.GetParticipantsByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, errors.ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return nil, errors.ErrUnauthorized
	}
	return room, nil
}
