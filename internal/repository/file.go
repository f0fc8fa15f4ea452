package repository

import (
	"context"
	"fmt"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FileRepository interface {
	Create(ctx context.Context, file *domain.StoredFile) error
	ListByRoom(ctx context.Context, roomID string, storageType domain.StorageType, limit int) ([]*domain.StoredFile, error)
}

type fileRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewFileRepository(db *pgxpool.Pool, log logger.Logger) FileRepository {
	return &fileRepository{db: db, log: log}
}

func (r *fileRepository) Create(ctx context.Context, file *domain.StoredFile) error {
	query := `
		INSERT INTO chat_files (id, room_id, message_id, uploader_id, name, content_type, storage_type, size, url, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		file.ID, file.RoomID, file.MessageID, file.UploaderID, file.Name,
		file.ContentType, file.StorageType, file.Size, file.URL, file.CreatedAt,
	).Scan(&file.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create file", "error", err, "room_id", file.RoomID)
		return fmt.Errorf("failed to create file: %w", err)
	}

	return nil
}

func (r *fileRepository) ListByRoom(ctx context.Context, roomID string, storageType domain.StorageType, limit int) ([]*domain.StoredFile, error) {
	query := `
		SELECT id, room_id, COALESCE(message_id, ''), uploader_id, name, content_type, storage_type, size, url, created_at
		FROM chat_files
		WHERE room_id = $1 AND storage_type = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, roomID, storageType, limit)
	if err != nil {
		r.log.Error("Failed to list files", "error", err, "room_id", roomID)
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := make([]*domain.StoredFile, 0)
	for rows.Next() {
		file := &domain.StoredFile{}
		err := rows.Scan(
			&file.ID, &file.RoomID, &file.MessageID, &file.UploaderID, &file.Name,
			&file.ContentType, &file.StorageType, &file.Size, &file.URL, &file.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan file", "error", err)
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read files: %w", err)
	}

	return files, nil
}
