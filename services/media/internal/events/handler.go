package events

import (
	"context"
	"encoding/json"

	"github.com/mkravets/socialnet/pkg/events"
	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/services/media/internal/repo"
	"github.com/mkravets/socialnet/services/media/internal/storage"
)

// PostDeletedHandler removes the objects and rows a deleted post left behind.
// Deletion is best effort per id: one failing object must not block the rest,
// and a failed object keeps its row so a later redelivery can retry it.
type PostDeletedHandler struct {
	Repo    *repo.GormRepo
	Storage storage.ObjectStorage
}

func (h *PostDeletedHandler) Handle(ctx context.Context, payload []byte) error {
	l := logging.FromContext(ctx).With("handler", "post_deleted")

	var evt events.PostDeleted
	if err := json.Unmarshal(payload, &evt); err != nil {
		// A malformed payload will never parse on redelivery either.
		l.Error("malformed post.deleted payload dropped", "error", err)
		return nil
	}
	if len(evt.MediaIDs) == 0 {
		return nil
	}

	rows, err := h.Repo.FindByIDs(ctx, evt.MediaIDs)
	if err != nil {
		l.Error("media lookup failed", "post_id", evt.PostID, "error", err)
		return err
	}

	for _, m := range rows {
		if err := h.Storage.Delete(ctx, m.StorageKey); err != nil {
			l.Error("object delete failed, keeping row", "media_id", m.ID, "key", m.StorageKey, "error", err)
			continue
		}
		if err := h.Repo.Delete(ctx, m.ID); err != nil {
			l.Error("media row delete failed", "media_id", m.ID, "error", err)
		}
	}
	return nil
}
