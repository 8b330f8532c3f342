package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/services/media/internal/models"
	"github.com/mkravets/socialnet/services/media/internal/repo"
	"github.com/mkravets/socialnet/services/media/internal/storage"
)

var ErrValidation = errors.New("validation failed")

type MediaService struct {
	Repo    *repo.GormRepo
	Storage storage.ObjectStorage
}

// Upload stores the object first and the row second. A crash between the two
// leaves an orphan object, never a row pointing at nothing.
func (s *MediaService) Upload(ctx context.Context, userID, fileName, mimeType string, body io.Reader) (*models.Media, error) {
	l := logging.FromContext(ctx).With("svc", "media.upload")

	if fileName == "" {
		return nil, ErrValidation
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	key := fmt.Sprintf("media/%s/%s", userID, uuid.New())
	url, err := s.Storage.Upload(ctx, key, mimeType, body)
	if err != nil {
		l.Error("object upload failed", "key", key, "error", err)
		return nil, err
	}

	media := models.Media{
		UserID:     userID,
		FileName:   fileName,
		MimeType:   mimeType,
		URL:        url,
		StorageKey: key,
	}
	if err := s.Repo.Create(ctx, &media); err != nil {
		l.Error("media row create failed", "key", key, "error", err)
		return nil, err
	}
	return &media, nil
}

func (s *MediaService) ListByUser(ctx context.Context, userID string) ([]models.Media, error) {
	return s.Repo.ListByUser(ctx, userID)
}
