package services

import (
	"context"
	"testing"

	"github.com/AnshRaj112/petverse-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth() (*AuthService, *TokenIssuer) {
	tokens := NewTokenIssuer("test-secret")
	return NewAuthService(store.NewMemoryUserStore(), tokens), tokens
}

func TestRegister_StoresHashedPassword(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth()

	u, err := auth.Register(ctx, "ann", "555-0100", "ann@example.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ann", u.Username)
	assert.Equal(t, "555-0100", u.Mobile)
	assert.NotEqual(t, "pw123456", u.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth()

	_, err := auth.Register(ctx, "ann", "1", "ann@example.com", "pw")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "someone", "2", "ann@example.com", "other")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	auth, tokens := newTestAuth()

	u, err := auth.Register(ctx, "ann", "1", "ann@example.com", "pw")
	require.NoError(t, err)

	res, err := auth.Authenticate(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ann", res.Username)
	assert.Equal(t, u.ID, res.UserID)

	claims, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", claims.Email)

	_, err = auth.Authenticate(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Authenticate(ctx, "bob@example.com", "pw")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
