package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Object - результат сохранения загруженного файла
type Object struct {
	Key         string
	URL         string
	ContentType string
	StorageType domain.StorageType
	Size        int64
}

type FileStorage interface {
	Save(ctx context.Context, roomID, name string, content []byte) (*Object, error)
}

// DiskStorage хранит файлы в dir/<room id>/<uuid><ext> и отдает их по publicURL
type DiskStorage struct {
	dir       string
	publicURL string
	maxSize   int64
	log       logger.Logger
}

func NewDiskStorage(dir, publicURL string, maxSize int64, log logger.Logger) *DiskStorage {
	return &DiskStorage{
		dir:       dir,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		maxSize:   maxSize,
		log:       log,
	}
}

func (s *DiskStorage) Dir() string {
	return s.dir
}

func (s *DiskStorage) Save(ctx context.Context, roomID, name string, content []byte) (*Object, error) {
	if int64(len(content)) > s.maxSize {
		return nil, errors.Validation(fmt.Errorf("file %q exceeds %d bytes", name, s.maxSize))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Каталог комнаты - всегда прямой потомок dir
	roomName := filepath.Base(roomID)
	if roomName == "." || roomName == ".." || roomName == string(filepath.Separator) {
		return nil, errors.Validation(fmt.Errorf("invalid room id %q", roomID))
	}

	mt := mimetype.Detect(content)
	ext := mt.Extension()
	if ext == "" || mt.Is("application/octet-stream") || mt.Is("text/plain") {
		if original := filepath.Ext(name); original != "" {
			ext = strings.ToLower(original)
		}
	}

	roomDir := filepath.Join(s.dir, roomName)
	if err := os.MkdirAll(roomDir, 0o755); err != nil {
		s.log.Error("Failed to create room directory", "error", err, "room_id", roomID)
		return nil, fmt.Errorf("failed to create room directory: %w", err)
	}

	fileName := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(roomDir, fileName), content, 0o644); err != nil {
		s.log.Error("Failed to write file", "error", err, "room_id", roomID, "name", name)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	key := path.Join(roomName, fileName)
	return &Object{
		Key:         key,
		URL:         s.publicURL + "/" + key,
		ContentType: mt.String(),
		StorageType: StorageTypeOf(mt),
		Size:        int64(len(content)),
	}, nil
}

// StorageTypeOf относит файл к категории медиа комнаты, все остальное - документы
func StorageTypeOf(mt *mimetype.MIME) domain.StorageType {
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case strings.HasPrefix(m.String(), "image/"):
			return domain.StorageTypeImage
		case strings.HasPrefix(m.String(), "video/"):
			return domain.StorageTypeVideo
		case m.Is("application/pdf"):
			return domain.StorageTypePdf
		}
	}
	return domain.StorageTypeDoc
}
