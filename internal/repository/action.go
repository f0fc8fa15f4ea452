package repository

import (
	"context"
	"fmt"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ActionRepository interface {
	Create(ctx context.Context, action *domain.MessageAction) error
}

type actionRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewActionRepository(db *pgxpool.Pool, log logger.Logger) ActionRepository {
	return &actionRepository{db: db, log: log}
}

func (r *actionRepository) Create(ctx context.Context, action *domain.MessageAction) error {
	query := `
		INSERT INTO chat_actions (room_id, user_id, message_id, action_type, status, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		action.RoomID, action.UserID, action.MessageID,
		action.Type, action.Status, action.Payload, action.CreatedAt,
	).Scan(&action.ID)
	if err != nil {
		r.log.Error("Failed to create action", "error", err, "room_id", action.RoomID)
		return fmt.Errorf("failed to create action: %w", err)
	}

	return nil
}
