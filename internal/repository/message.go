package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chat_gateway/internal/domain"
	apperrors "chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) error
	// GetMessages - последние limit сообщений, созданных раньше before (если задан), новые первыми
	GetMessages(ctx context.Context, roomID string, limit int, before *time.Time) ([]*domain.ChatMessage, error)
	LastMessageID(ctx context.Context, roomID string) (string, error)
	// SoftDelete удаляет только сообщение отправителя senderID
	SoftDelete(ctx context.Context, roomID, messageID, senderID string) error
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, room_id, sender_id, message_type, body, attachment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.ID, message.RoomID, message.SenderID, message.Type,
		message.Body, message.Attachment, message.CreatedAt,
	).Scan(&message.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create message", "error", err, "room_id", message.RoomID)
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *messageRepository) GetMessages(ctx context.Context, roomID string, limit int, before *time.Time) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, room_id, sender_id, message_type, body, attachment, created_at
		FROM chat_messages
		WHERE room_id = $1 AND deleted_at IS NULL AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, roomID, limit, before)
	if err != nil {
		r.log.Error("Failed to get messages", "error", err, "room_id", roomID)
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*domain.ChatMessage, 0, limit)
	for rows.Next() {
		message := &domain.ChatMessage{}
		err := rows.Scan(
			&message.ID, &message.RoomID, &message.SenderID, &message.Type,
			&message.Body, &message.Attachment, &message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return messages, nil
}

func (r *messageRepository) LastMessageID(ctx context.Context, roomID string) (string, error) {
	query := `
		SELECT id FROM chat_messages
		WHERE room_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var id string
	err := r.db.QueryRow(ctx, query, roomID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		r.log.Error("Failed to get last message", "error", err, "room_id", roomID)
		return "", fmt.Errorf("failed to get last message: %w", err)
	}

	return id, nil
}

func (r *messageRepository) SoftDelete(ctx context.Context, roomID, messageID, senderID string) error {
	query := `
		UPDATE chat_messages
		SET deleted_at = $4
		WHERE id = $1 AND room_id = $2 AND sender_id = $3 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, messageID, roomID, senderID, time.Now())
	if err != nil {
		r.log.Error("Failed to delete message", "error", err, "message_id", messageID)
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}

	return nil
}
