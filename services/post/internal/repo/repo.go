package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

type GormRepo struct {
	DB *gorm.DB
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
