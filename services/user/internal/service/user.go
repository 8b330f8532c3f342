package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	pkghash "github.com/mkravets/socialnet/pkg/hash"
	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/pkg/tokens"
	"github.com/mkravets/socialnet/services/user/internal/models"
	"github.com/mkravets/socialnet/services/user/internal/repo"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type UserService struct {
	Repo      repo.GormRepo
	JWTSecret []byte
}

type AuthResult struct {
	UserID       uuid.UUID
	Username     string
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "user.register")

	if username == "" || email == "" || password == "" {
		return nil, ErrValidation
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register rejected", "reason", "duplicate user")
			return nil, ErrConflict
		}
		l.Error("register failed", "error", err)
		return nil, err
	}

	return s.issueTokens(ctx, &user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "user.login")

	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login failed", "error", err)
		return nil, err
	}
	if !pkghash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login rejected", "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the credential pair. The presented refresh token is consumed
// whether or not it is still valid, so a replayed token always fails.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "user.refresh")

	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	rt, err := s.Repo.ConsumeRefresh(ctx, pkghash.Sha256Hex(refreshToken), time.Now().Unix())
	if err != nil {
		if errors.Is(err, repo.ErrRefreshNotFound) || errors.Is(err, repo.ErrRefreshExpired) {
			l.Warn("refresh rejected", "reason", err.Error())
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh failed", "error", err)
		return nil, err
	}

	user, err := s.Repo.FindByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.DeleteRefresh(ctx, pkghash.Sha256Hex(refreshToken))
}

func (s *UserService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessExp := time.Now().Add(AccessTTL)
	accessToken, err := tokens.NewAccessToken(user.ID.String(), user.Username, user.Email, s.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshToken, err := newOpaqueToken()
	if err != nil {
		return nil, err
	}
	refreshExp := time.Now().Add(RefreshTTL)
	rt := models.RefreshToken{
		TokenHash: pkghash.Sha256Hex(refreshToken),
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := s.Repo.SaveRefresh(ctx, &rt); err != nil {
		return nil, err
	}

	return &AuthResult{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func newOpaqueToken() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
