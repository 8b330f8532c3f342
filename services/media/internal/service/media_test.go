package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mkravets/socialnet/services/media/internal/models"
	"github.com/mkravets/socialnet/services/media/internal/repo"
)

type captureStorage struct {
	keys []string
}

func (c *captureStorage) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	c.keys = append(c.keys, key)
	return "http://cdn.local/media/" + key, nil
}

func (c *captureStorage) Delete(_ context.Context, _ string) error {
	return nil
}

func newTestService(t *testing.T) (*MediaService, *captureStorage) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.Media{}))

	st := &captureStorage{}
	return &MediaService{Repo: &repo.GormRepo{DB: gdb}, Storage: st}, st
}

func TestMediaService_Upload(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	media, err := svc.Upload(ctx, "user-1", "cat.png", "image/png", strings.NewReader("pngdata"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", media.UserID)
	assert.Equal(t, "cat.png", media.FileName)
	assert.NotEmpty(t, media.URL)
	require.Len(t, st.keys, 1)
	assert.True(t, strings.HasPrefix(st.keys[0], "media/user-1/"))

	rows, err := svc.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMediaService_Upload_RequiresFileName(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.Upload(context.Background(), "user-1", "", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, st.keys)
}
