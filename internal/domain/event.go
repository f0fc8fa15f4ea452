package domain

import "encoding/json"

// InboundKind - тип события от клиента
type InboundKind string

const (
	InboundSendMessage     InboundKind = "send-message"
	InboundStartTyping     InboundKind = "start-typing"
	InboundStopTyping      InboundKind = "stop-typing"
	InboundRemoveMessage   InboundKind = "remove-message"
	InboundReadLastMessage InboundKind = "read-last-message"
	InboundUploadFile      InboundKind = "upload-file"
	InboundMakeAction      InboundKind = "make-action"
)

// OutboundKind - тип события, которое рассылается подключениям
type OutboundKind string

const (
	OutboundMessageSent     OutboundKind = "message-sent"
	OutboundTypingStarted   OutboundKind = "typing-started"
	OutboundTypingStopped   OutboundKind = "typing-stopped"
	OutboundMessageRemoved  OutboundKind = "message-removed"
	OutboundLastMessageRead OutboundKind = "last-message-read"
	OutboundFileUploaded    OutboundKind = "file-uploaded"
	OutboundActionMade      OutboundKind = "action-made"

	// OutboundError отправляется только исходному подключению, никогда не рассылается
	OutboundError OutboundKind = "error"
)

// InboundFrame - кадр от клиента: {"event": "...", "data": {...}}
type InboundFrame struct {
	Event InboundKind     `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutboundEvent - единица рассылки
type OutboundEvent struct {
	Kind   OutboundKind `json:"event"`
	Data   any          `json:"data"`
	UserID string       `json:"userId,omitempty"`
	RoomID string       `json:"roomId,omitempty"`
}

type ErrorNotice struct {
	Message string `json:"message"`
}

// NewErrorEvent строит уведомление об ошибке для одного подключения
func NewErrorEvent(message string) OutboundEvent {
	return OutboundEvent{Kind: OutboundError, Data: ErrorNotice{Message: message}}
}

// Request - общий интерфейс входящих запросов, у всех есть userId и roomId
type Request interface {
	Base() *BaseRequest
}

type BaseRequest struct {
	UserID string `json:"userId" validate:"required"`
	RoomID string `json:"roomId" validate:"required"`
}

func (r *BaseRequest) Base() *BaseRequest { return r }

type TextRequest struct {
	BaseRequest
	Body       string      `json:"body" validate:"required_without=Attachment,max=4000"`
	Type       MessageType `json:"type,omitempty" validate:"omitempty,oneof=Text File Media Call Notify Link"`
	Attachment *Attachment `json:"attachment,omitempty" validate:"omitempty"`
}

type RemoveMessageRequest struct {
	BaseRequest
	MessageID string `json:"messageId" validate:"required"`
}

type FileDescriptor struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
	// Content приходит в base64 и не попадает в исходящее событие
	Content []byte `json:"content,omitempty" validate:"required,min=1"`
	URL     string `json:"url,omitempty"`
}

type UploadFileRequest struct {
	BaseRequest
	MessageID string         `json:"messageId,omitempty"`
	File      FileDescriptor `json:"file"`
}

type ActionDescriptor struct {
	Type    string         `json:"type" validate:"required,max=64"`
	Status  *string        `json:"status,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

type MakeActionRequest struct {
	BaseRequest
	MessageID *string          `json:"messageId,omitempty"`
	Action    ActionDescriptor `json:"action"`
}

// TypingEvent - участник из снимка комнаты, объединенный с запросом
type TypingEvent struct {
	Participant
	UserID   string `json:"userId"`
	RoomID   string `json:"roomId"`
	IsTyping bool   `json:"isTyping"`
}
