package gateway

import "chat_gateway/internal/domain"

// Build собирает исходящее событие из результата обработчика
func Build(kind domain.OutboundKind, data any, userID, roomID string) domain.OutboundEvent {
	return domain.OutboundEvent{
		Kind:   kind,
		Data:   data,
		UserID: userID,
		RoomID: roomID,
	}
}
