package domain

import (
	"strings"
	"time"
)

type MessageType string

const (
	MessageTypeText   MessageType = "Text"
	MessageTypeFile   MessageType = "File"
	MessageTypeMedia  MessageType = "Media"
	MessageTypeCall   MessageType = "Call"
	MessageTypeNotify MessageType = "Notify"
	MessageTypeLink   MessageType = "Link"
)

// StorageType - категория сохраненного файла, по ней фильтруется медиа комнаты
type StorageType string

const (
	StorageTypeImage StorageType = "Image"
	StorageTypeVideo StorageType = "Video"
	StorageTypePdf   StorageType = "Pdf"
	StorageTypeDoc   StorageType = "Doc"
	StorageTypeLink  StorageType = "Link"
)

// ParseStorageType принимает значение в любом регистре ("image", "Image")
func ParseStorageType(s string) (StorageType, bool) {
	for _, t := range []StorageType{StorageTypeImage, StorageTypeVideo, StorageTypePdf, StorageTypeDoc, StorageTypeLink} {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

type ChatMessage struct {
	ID         string      `json:"id"`
	RoomID     string      `json:"roomId"`
	SenderID   string      `json:"senderId"`
	Type       MessageType `json:"type"`
	Body       string      `json:"body"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"sentAt"`
	DeletedAt  *time.Time  `json:"deletedAt,omitempty"`
}

// Attachment - ссылка на уже сохраненный файл или внешний ресурс
type Attachment struct {
	URL         string      `json:"url" validate:"required"`
	Name        string      `json:"name,omitempty"`
	ContentType string      `json:"contentType,omitempty"`
	StorageType StorageType `json:"storageType,omitempty"`
	Size        int64       `json:"size,omitempty"`
}

// StoredFile - файл, загруженный в комнату
type StoredFile struct {
	ID          string      `json:"id"`
	RoomID      string      `json:"roomId"`
	MessageID   string      `json:"messageId"`
	UploaderID  string      `json:"uploaderId"`
	Name        string      `json:"name"`
	ContentType string      `json:"contentType"`
	StorageType StorageType `json:"storageType"`
	Size        int64       `json:"size"`
	URL         string      `json:"url"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// MessageAction - действие над сообщением или в комнате (реакция, статус звонка и т.п.)
type MessageAction struct {
	ID        int64          `json:"id"`
	RoomID    string         `json:"roomId"`
	UserID    string         `json:"userId"`
	MessageID *string        `json:"messageId,omitempty"`
	Type      string         `json:"type"`
	Status    *string        `json:"status,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

const (
	CallStatusIncoming = "Incoming"
	CallStatusRunning  = "Running"
	CallStatusEnded    = "Ended"
)
