package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Media struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"index;not null"       json:"userId"`
	FileName   string    `gorm:"not null"             json:"fileName"`
	MimeType   string    `gorm:"not null"             json:"mimeType"`
	URL        string    `gorm:"not null"             json:"url"`
	StorageKey string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (m *Media) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
