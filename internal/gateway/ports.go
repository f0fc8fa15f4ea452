//go:generate go run go.uber.org/mock/mockgen -source=ports.go -destination=../mocks/mock_ports.go -package=mocks
package gateway

import (
	"context"

	"chat_gateway/internal/domain"
)

// RoomDirectory возвращает снимок участников комнаты.
// Отсутствующая комната - (nil, nil), а не ошибка.
type RoomDirectory interface {
	GetParticipantsByRoom(ctx context.Context, roomID string) (*domain.Room, error)
}

// MessageStore выполняет побочные эффекты входящих событий
type MessageStore interface {
	OnMessage(ctx context.Context, req *domain.TextRequest) (*domain.ChatMessage, error)
	OnRemoveMessage(ctx context.Context, req *domain.RemoveMessageRequest) error
	OnReadLastMessage(ctx context.Context, req *domain.BaseRequest) error
	OnUploadFile(ctx context.Context, req *domain.UploadFileRequest) error
	OnMakeAction(ctx context.Context, req *domain.MakeActionRequest) error
}

// Broadcaster получает каждое успешно построенное исходящее событие
type Broadcaster interface {
	Broadcast(event domain.OutboundEvent)
}

// Conn - живое клиентское подключение.
// Send не блокирует и ничего не делает после закрытия подключения.
type Conn interface {
	ID() string
	UserID() string
	Send(event domain.OutboundEvent)
}
