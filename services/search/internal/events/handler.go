package events

import (
	"context"
	"encoding/json"

	"github.com/mkravets/socialnet/pkg/events"
	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/services/search/internal/index"
)

// IndexHandler keeps the search index following the post store. Index errors
// leave the event unacknowledged so the broker redelivers it; documents are
// keyed by post id, so a redelivered create is a harmless overwrite.
type IndexHandler struct {
	Indexer index.Indexer
}

func (h *IndexHandler) HandlePostCreated(ctx context.Context, payload []byte) error {
	l := logging.FromContext(ctx).With("handler", "post_created")

	var evt events.PostCreated
	if err := json.Unmarshal(payload, &evt); err != nil {
		l.Error("malformed post.created payload dropped", "error", err)
		return nil
	}

	return h.Indexer.Index(ctx, index.Document{
		PostID:    evt.PostID,
		UserID:    evt.UserID,
		Content:   evt.Content,
		CreatedAt: evt.CreatedAt,
	})
}

func (h *IndexHandler) HandlePostDeleted(ctx context.Context, payload []byte) error {
	l := logging.FromContext(ctx).With("handler", "post_deleted")

	var evt events.PostDeleted
	if err := json.Unmarshal(payload, &evt); err != nil {
		l.Error("malformed post.deleted payload dropped", "error", err)
		return nil
	}

	return h.Indexer.Remove(ctx, evt.PostID)
}
