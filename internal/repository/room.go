package repository

import (
	"context"
	"errors"
	"fmt"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository interface {
	// GetParticipantsByRoom возвращает (nil, nil), если комнаты нет
	GetParticipantsByRoom(ctx context.Context, roomID string) (*domain.Room, error)
}

type roomRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewRoomRepository(db *pgxpool.Pool, log logger.Logger) RoomRepository {
	return &roomRepository{db: db, log: log}
}

func (r *roomRepository) GetParticipantsByRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	room := &domain.Room{}
	err := r.db.QueryRow(ctx, `SELECT id FROM rooms WHERE id = $1`, roomID).Scan(&room.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("Failed to get room", "error", err, "room_id", roomID)
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	query := `
		SELECT user_id, display_name, avatar_url
		FROM room_participants
		WHERE room_id = $1 AND left_at IS NULL
		ORDER BY joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to get participants", "error", err, "room_id", roomID)
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.AvatarURL); err != nil {
			r.log.Error("Failed to scan participant", "error", err)
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		room.Participants = append(room.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}

	return room, nil
}
