// internal/domain/upload/service.go
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/pharmacy-backend/internal/config"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the configured limit
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrInvalidFileType is returned when an upload is not an accepted image
	ErrInvalidFileType = errors.New("file type not allowed")
)

// Service stores checkout documents on local disk and records them
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ValidateImage checks the size limit and sniffs the content type. The
// declared Content-Type header is ignored; only the leading bytes count.
func (s *Service) ValidateImage(header *multipart.FileHeader) error {
	if header.Size > s.config.Upload.MaxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, header.Size, s.config.Upload.MaxSize)
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	detected := http.DetectContentType(buf[:n])
	for _, allowed := range s.config.Upload.AllowedMimeTypes {
		if detected == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidFileType, detected)
}

// SaveImage validates, stores and records an uploaded image, returning the
// public URL for the stored file.
func (s *Service) SaveImage(ctx context.Context, userID uint, kind FileKind, header *multipart.FileHeader) (*UploadedFile, error) {
	if err := s.ValidateImage(header); err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	storedName := fmt.Sprintf("%s_%s%s", kind, uuid.New().String(), ext)

	dir := filepath.Join(s.config.External.Storage.LocalPath, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	dstPath := filepath.Join(dir, storedName)
	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	record := &UploadedFile{
		UserID:       userID,
		Kind:         kind,
		OriginalName: header.Filename,
		StoredName:   storedName,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		URL:          fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.config.External.Storage.BaseURL, "/"), kind, storedName),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		os.Remove(dstPath)
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}
	return record, nil
}
