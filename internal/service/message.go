package service

import (
	"context"
	"fmt"
	"time"

	"chat_gateway/internal/domain"
	"chat_gateway/internal/repository"
	"chat_gateway/internal/storage"
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// MessageService - хранилище сообщений шлюза и история для REST
type MessageService interface {
	OnMessage(ctx context.Context, req *domain.TextRequest) (*domain.ChatMessage, error)
	OnRemoveMessage(ctx context.Context, req *domain.RemoveMessageRequest) error
	OnReadLastMessage(ctx context.Context, req *domain.BaseRequest) error
	OnUploadFile(ctx context.Context, req *domain.UploadFileRequest) error
	OnMakeAction(ctx context.Context, req *domain.MakeActionRequest) error

	GetMessages(ctx context.Context, roomID string, limit int, before *time.Time) ([]*domain.ChatMessage, error)
	GetMedia(ctx context.Context, roomID string, storageType domain.StorageType, limit int) ([]*domain.StoredFile, error)
	GetReadMarker(ctx context.Context, roomID, userID string) (*repository.ReadMarker, error)
}

type messageService struct {
	messageRepo    repository.MessageRepository
	fileRepo       repository.FileRepository
	actionRepo     repository.ActionRepository
	readMarkerRepo repository.ReadMarkerRepository
	files          storage.FileStorage
	now            func() time.Time
	log            logger.Logger
}

func NewMessageService(repos *repository.Repositories, files storage.FileStorage, log logger.Logger) MessageService {
	return &messageService{
		messageRepo:    repos.Message,
		fileRepo:       repos.File,
		actionRepo:     repos.Action,
		readMarkerRepo: repos.ReadMarker,
		files:          files,
		now:            time.Now,
		log:            log,
	}
}

func (s *messageService) OnMessage(ctx context.Context, req *domain.TextRequest) (*domain.ChatMessage, error) {
	msgType := req.Type
	if msgType == "" {
		msgType = domain.MessageTypeText
		if req.Attachment != nil {
			msgType = domain.MessageTypeFile
		}
	}

	message := &domain.ChatMessage{
		ID:         uuid.NewString(),
		RoomID:     req.RoomID,
		SenderID:   req.UserID,
		Type:       msgType,
		Body:       req.Body,
		Attachment: req.Attachment,
		CreatedAt:  s.now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.log.Debug("Message stored", "message_id", message.ID, "room_id", message.RoomID)
	return message, nil
}

func (s *messageService) OnRemoveMessage(ctx context.Context, req *domain.RemoveMessageRequest) error {
	return s.messageRepo.SoftDelete(ctx, req.RoomID, req.MessageID, req.UserID)
}

// OnReadLastMessage отмечает последнее сообщение комнаты прочитанным
func (s *messageService) OnReadLastMessage(ctx context.Context, req *domain.BaseRequest) error {
	lastID, err := s.messageRepo.LastMessageID(ctx, req.RoomID)
	if err != nil {
		return err
	}

	return s.readMarkerRepo.Set(ctx, req.RoomID, req.UserID, repository.ReadMarker{
		MessageID: lastID,
		ReadAt:    s.now(),
	})
}

// OnUploadFile сохраняет файл и дополняет запрос: url, тип, размер и id сообщения.
// Без messageId для файла создается сообщение типа File.
func (s *messageService) OnUploadFile(ctx context.Context, req *domain.UploadFileRequest) error {
	obj, err := s.files.Save(ctx, req.RoomID, req.File.Name, req.File.Content)
	if err != nil {
		return err
	}

	req.File.URL = obj.URL
	req.File.ContentType = obj.ContentType
	req.File.Size = obj.Size

	if req.MessageID == "" {
		message, err := s.OnMessage(ctx, &domain.TextRequest{
			BaseRequest: req.BaseRequest,
			Type:        domain.MessageTypeFile,
			Attachment: &domain.Attachment{
				URL:         obj.URL,
				Name:        req.File.Name,
				ContentType: obj.ContentType,
				StorageType: obj.StorageType,
				Size:        obj.Size,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create file message: %w", err)
		}
		req.MessageID = message.ID
	}

	return s.fileRepo.Create(ctx, &domain.StoredFile{
		ID:          uuid.NewString(),
		RoomID:      req.RoomID,
		MessageID:   req.MessageID,
		UploaderID:  req.UserID,
		Name:        req.File.Name,
		ContentType: obj.ContentType,
		StorageType: obj.StorageType,
		Size:        obj.Size,
		URL:         obj.URL,
		CreatedAt:   s.now(),
	})
}

func (s *messageService) OnMakeAction(ctx context.Context, req *domain.MakeActionRequest) error {
	return s.actionRepo.Create(ctx, &domain.MessageAction{
		RoomID:    req.RoomID,
		UserID:    req.UserID,
		MessageID: req.MessageID,
		Type:      req.Action.Type,
		Status:    req.Action.Status,
		Payload:   req.Action.Payload,
		CreatedAt: s.now(),
	})
}

func (s *messageService) GetMessages(ctx context.Context, roomID string, limit int, before *time.Time) ([]*domain.ChatMessage, error) {
	return s.messageRepo.GetMessages(ctx, roomID, pageSize(limit), before)
}

func (s *messageService) GetMedia(ctx context.Context, roomID string, storageType domain.StorageType, limit int) ([]*domain.StoredFile, error) {
	if storageType == "" {
		return nil, errors.Validation(fmt.Errorf("storage type is required"))
	}
	return s.fileRepo.ListByRoom(ctx, roomID, storageType, pageSize(limit))
}

func (s *messageService) GetReadMarker(ctx context.Context, roomID, userID string) (*repository.ReadMarker, error) {
	return s.readMarkerRepo.Get(ctx, roomID, userID)
}

func pageSize(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return defaultPageSize
	}
	return limit
}
