package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkghash "github.com/mkravets/socialnet/pkg/hash"
	"github.com/mkravets/socialnet/pkg/tokens"
	"github.com/mkravets/socialnet/services/user/internal/models"
	"github.com/mkravets/socialnet/services/user/internal/repo"
)

func newTestService(t *testing.T) *UserService {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	return &UserService{
		Repo:      repo.GormRepo{DB: gdb},
		JWTSecret: []byte("test-jwt-secret"),
	}
}

func TestUserService_Register_SuccessAndConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "alice", res.Username)
	assert.NotEmpty(t, res.RefreshToken)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, res.UserID.String(), claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, err = svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_Register_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{name: "empty username", username: "", email: "a@b.c", password: "secret"},
		{name: "empty email", username: "user", email: "", password: "secret"},
		{name: "empty password", username: "user", email: "a@b.c", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "bob@example.com", "Secret123")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "bob@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "bob", res.Username)

	_, err = svc.Login(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Refresh_RotatesAndConsumes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "carol", "carol@example.com", "Secret123")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed credential cannot be replayed.
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The rotated one still works.
	_, err = svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestUserService_Refresh_Expired(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "dave", "dave@example.com", "Secret123")
	require.NoError(t, err)

	expired := "expired-opaque-token"
	require.NoError(t, svc.Repo.SaveRefresh(ctx, &models.RefreshToken{
		TokenHash: pkghash.Sha256Hex(expired),
		UserID:    res.UserID,
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}))

	_, err = svc.Refresh(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The expired row is consumed, not kept around forever.
	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.RefreshToken{}).
		Where("token_hash = ?", pkghash.Sha256Hex(expired)).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestUserService_Logout_InvalidatesRefresh(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "erin", "erin@example.com", "Secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RefreshToken))

	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestUserService_Logout_EmptyTokenNoError(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Logout(context.Background(), ""))
}
