package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkravets/socialnet/services/user/internal/models"
)

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", u.Username, u.Email).
		FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

func (r *GormRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SaveRefresh(ctx context.Context, rt *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(rt).Error
}

// ConsumeRefresh finds a stored refresh digest and deletes it in the same
// transaction, so each refresh credential rotates exactly once. Expired rows
// are deleted too but reported as expired; the expiry check happens after the
// transaction commits so the delete sticks.
func (r *GormRepo) ConsumeRefresh(ctx context.Context, tokenHash string, now int64) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token_hash = ?", tokenHash).First(&rt).Error; err != nil {
			if isNotFound(err) {
				return ErrRefreshNotFound
			}
			return err
		}
		return tx.Delete(&models.RefreshToken{}, rt.ID).Error
	})
	if err != nil {
		return nil, err
	}
	if rt.ExpiresAt <= now {
		return nil, ErrRefreshExpired
	}
	return &rt, nil
}

func (r *GormRepo) DeleteRefresh(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&models.RefreshToken{}).Error
}
