package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrUserNotFound     = errors.New("user not found")
	ErrRefreshNotFound  = errors.New("refresh token not found")
	ErrRefreshExpired   = errors.New("refresh token expired")
)

type GormRepo struct {
	DB *gorm.DB
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
