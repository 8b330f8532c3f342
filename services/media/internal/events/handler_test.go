package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgevents "github.com/mkravets/socialnet/pkg/events"
	"github.com/mkravets/socialnet/services/media/internal/models"
	"github.com/mkravets/socialnet/services/media/internal/repo"
)

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
	failKey string
}

func (f *fakeStorage) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	return "http://example/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key == f.failKey {
		return errors.New("object store unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func newHandler(t *testing.T, st *fakeStorage) (*PostDeletedHandler, *repo.GormRepo) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.Media{}))

	r := &repo.GormRepo{DB: gdb}
	return &PostDeletedHandler{Repo: r, Storage: st}, r
}

func seedMedia(t *testing.T, r *repo.GormRepo, key string) *models.Media {
	t.Helper()
	m := &models.Media{
		UserID:     "user-1",
		FileName:   "f.png",
		MimeType:   "image/png",
		URL:        "http://example/" + key,
		StorageKey: key,
	}
	require.NoError(t, r.Create(context.Background(), m))
	return m
}

func payload(t *testing.T, evt pkgevents.PostDeleted) []byte {
	t.Helper()
	b, err := json.Marshal(evt)
	require.NoError(t, err)
	return b
}

func TestPostDeletedHandler_DeletesObjectsAndRows(t *testing.T) {
	st := &fakeStorage{}
	h, r := newHandler(t, st)
	ctx := context.Background()

	m1 := seedMedia(t, r, "media/user-1/a")
	m2 := seedMedia(t, r, "media/user-1/b")

	err := h.Handle(ctx, payload(t, pkgevents.PostDeleted{
		PostID:   "p1",
		MediaIDs: []string{m1.ID.String(), m2.ID.String()},
	}))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"media/user-1/a", "media/user-1/b"}, st.deleted)
	_, err = r.FindByID(ctx, m1.ID)
	assert.ErrorIs(t, err, repo.ErrMediaNotFound)
	_, err = r.FindByID(ctx, m2.ID)
	assert.ErrorIs(t, err, repo.ErrMediaNotFound)
}

func TestPostDeletedHandler_KeepsRowWhenObjectDeleteFails(t *testing.T) {
	st := &fakeStorage{failKey: "media/user-1/bad"}
	h, r := newHandler(t, st)
	ctx := context.Background()

	good := seedMedia(t, r, "media/user-1/good")
	bad := seedMedia(t, r, "media/user-1/bad")

	// One failing object must not block the rest, and the event still acks.
	err := h.Handle(ctx, payload(t, pkgevents.PostDeleted{
		PostID:   "p1",
		MediaIDs: []string{good.ID.String(), bad.ID.String()},
	}))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"media/user-1/good"}, st.deleted)

	_, err = r.FindByID(ctx, good.ID)
	assert.ErrorIs(t, err, repo.ErrMediaNotFound)
	kept, err := r.FindByID(ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, "media/user-1/bad", kept.StorageKey)
}

func TestPostDeletedHandler_RedeliveryIsIdempotent(t *testing.T) {
	st := &fakeStorage{}
	h, r := newHandler(t, st)
	ctx := context.Background()

	m := seedMedia(t, r, "media/user-1/a")
	body := payload(t, pkgevents.PostDeleted{PostID: "p1", MediaIDs: []string{m.ID.String()}})

	require.NoError(t, h.Handle(ctx, body))
	require.NoError(t, h.Handle(ctx, body))

	assert.Equal(t, []string{"media/user-1/a"}, st.deleted)
}

func TestPostDeletedHandler_UnknownIDsAreSkipped(t *testing.T) {
	st := &fakeStorage{}
	h, _ := newHandler(t, st)

	err := h.Handle(context.Background(), payload(t, pkgevents.PostDeleted{
		PostID:   "p1",
		MediaIDs: []string{"00000000-0000-0000-0000-000000000001"},
	}))
	require.NoError(t, err)
	assert.Empty(t, st.deleted)
}

func TestPostDeletedHandler_MalformedPayloadIsDropped(t *testing.T) {
	st := &fakeStorage{}
	h, _ := newHandler(t, st)

	err := h.Handle(context.Background(), []byte("{not json"))
	require.NoError(t, err)
}
