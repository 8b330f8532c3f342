// Package events carries post lifecycle changes between services. Producers
// hand a payload to the broker and move on; consumers react asynchronously, so
// dependent state (search index, media objects) is eventually consistent with
// the post store. Delivery is at least once and handlers must be idempotent.
package events

import (
	"context"
	"time"
)

const (
	TopicPostCreated = "post.created"
	TopicPostDeleted = "post.deleted"
)

type PostCreated struct {
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostDeleted struct {
	PostID   string   `json:"postId"`
	MediaIDs []string `json:"mediaIds"`
}

// Publisher is fire-and-forget: Publish returns once the broker accepted the
// message, not once any consumer processed it.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// Handler processes one delivered message. A nil return acknowledges the
// message; an error leaves it unacknowledged for redelivery.
type Handler func(ctx context.Context, payload []byte) error
