package gateway

import (
	"chat_gateway/internal/domain"
	"chat_gateway/pkg/errors"
)

// Authorize проверяет, что userID - текущий участник комнаты.
// Снимок комнаты передает вызывающий, функция не делает I/O.
func Authorize(room *domain.Room, userID string) error {
	if room == nil {
		return errors.ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return errors.ErrUnauthorized
	}
	return nil
}
