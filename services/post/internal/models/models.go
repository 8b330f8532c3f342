package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null"       json:"userId"`
	Title     string    `gorm:"not null"             json:"title"`
	Content   string    `gorm:"not null"             json:"content"`
	LikeCount int64     `gorm:"default:0"            json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostMedia associates uploaded media with a post. The media service owns the
// objects; this table only records which ids belong to which post so deletion
// can fan out.
type PostMedia struct {
	PostID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	MediaID string    `gorm:"primaryKey"           json:"media_id"`
}

type Like struct {
	PostID uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID string    `gorm:"primaryKey"           json:"user_id"`
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;index;not null" json:"postId"`
	UserID    string    `gorm:"not null"                 json:"userId"`
	Content   string    `gorm:"not null"                 json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
