package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgevents "github.com/mkravets/socialnet/pkg/events"
	"github.com/mkravets/socialnet/services/search/internal/index"
)

type fakeIndexer struct {
	docs    map[string]index.Document
	indexEr error
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{docs: make(map[string]index.Document)}
}

func (f *fakeIndexer) Index(_ context.Context, doc index.Document) error {
	if f.indexEr != nil {
		return f.indexEr
	}
	f.docs[doc.PostID] = doc
	return nil
}

func (f *fakeIndexer) Remove(_ context.Context, postID string) error {
	delete(f.docs, postID)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, _ string, _, _ int) (int64, []index.Document, error) {
	out := make([]index.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return int64(len(out)), out, nil
}

func createdPayload(t *testing.T, evt pkgevents.PostCreated) []byte {
	t.Helper()
	b, err := json.Marshal(evt)
	require.NoError(t, err)
	return b
}

func TestIndexHandler_CreatedThenReplayed_OneDocument(t *testing.T) {
	idx := newFakeIndexer()
	h := &IndexHandler{Indexer: idx}
	ctx := context.Background()

	body := createdPayload(t, pkgevents.PostCreated{
		PostID:    "p1",
		UserID:    "u1",
		Content:   "hello search",
		CreatedAt: time.Now(),
	})

	require.NoError(t, h.HandlePostCreated(ctx, body))
	require.NoError(t, h.HandlePostCreated(ctx, body))

	assert.Len(t, idx.docs, 1)
	assert.Equal(t, "hello search", idx.docs["p1"].Content)
}

func TestIndexHandler_IndexErrorLeavesEventUnacked(t *testing.T) {
	idx := newFakeIndexer()
	idx.indexEr = errors.New("cluster red")
	h := &IndexHandler{Indexer: idx}

	err := h.HandlePostCreated(context.Background(), createdPayload(t, pkgevents.PostCreated{PostID: "p1"}))
	assert.Error(t, err)
}

func TestIndexHandler_DeletedRemovesDocument(t *testing.T) {
	idx := newFakeIndexer()
	h := &IndexHandler{Indexer: idx}
	ctx := context.Background()

	require.NoError(t, h.HandlePostCreated(ctx, createdPayload(t, pkgevents.PostCreated{PostID: "p1"})))

	deleted, err := json.Marshal(pkgevents.PostDeleted{PostID: "p1"})
	require.NoError(t, err)
	require.NoError(t, h.HandlePostDeleted(ctx, deleted))
	assert.Empty(t, idx.docs)

	// Removing an absent document is fine; deletes can be replayed.
	require.NoError(t, h.HandlePostDeleted(ctx, deleted))
}

func TestIndexHandler_MalformedPayloadIsDropped(t *testing.T) {
	h := &IndexHandler{Indexer: newFakeIndexer()}

	require.NoError(t, h.HandlePostCreated(context.Background(), []byte("{nope")))
	require.NoError(t, h.HandlePostDeleted(context.Background(), []byte("{nope")))
}
