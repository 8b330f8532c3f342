// Package index maintains the post search index. Each document is keyed by the
// post id, so replaying a post.created event overwrites the same document
// instead of duplicating it.
package index

import (
	"context"
	"time"
)

type Document struct {
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Indexer interface {
	// Index upserts the document under its post id.
	Index(ctx context.Context, doc Document) error
	// Remove deletes the document; removing an absent document is not an error.
	Remove(ctx context.Context, postID string) error
	Search(ctx context.Context, query string, from, size int) (int64, []Document, error)
}
