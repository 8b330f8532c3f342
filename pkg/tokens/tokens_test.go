package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-jwt-secret")
	userID := uuid.NewString()
	exp := time.Now().Add(15 * time.Minute).UTC()

	token, err := NewAccessToken(userID, "alice", "alice@example.com", secret, exp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessClaimsFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewAccessToken(uuid.NewString(), "bob", "bob@example.com", []byte("secret-a"), time.Now().Add(time.Minute))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, []byte("secret-b"))
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessClaimsFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-jwt-secret")
	token, err := NewAccessToken(uuid.NewString(), "bob", "bob@example.com", secret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, secret)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestAccessClaimsFromToken_Garbage(t *testing.T) {
	t.Parallel()

	claims, err := AccessClaimsFromToken("not-a-jwt", []byte("secret"))
	require.Error(t, err)
	assert.Nil(t, claims)
}
