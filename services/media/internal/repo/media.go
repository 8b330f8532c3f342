package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkravets/socialnet/services/media/internal/models"
)

var ErrMediaNotFound = errors.New("media not found")

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Create(ctx context.Context, m *models.Media) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByIDs silently skips ids with no row; callers deal with partial results.
func (r *GormRepo) FindByIDs(ctx context.Context, ids []string) ([]models.Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Media
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) ListByUser(ctx context.Context, userID string) ([]models.Media, error) {
	var rows []models.Media
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.Media{}, "id = ?", id).Error
}
