package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBlacklist is an in-memory Blacklist so token tests run without Redis.
type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{revoked: make(map[string]bool)}
}

func (b *memBlacklist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = true
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[jti], nil
}

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret", time.Hour, 24*time.Hour, newMemBlacklist())
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.New()

	access, refresh, err := svc.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	got, err := svc.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	svc := newTestTokenService()

	_, refresh, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	_, err = svc.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessRejectsWrongSecret(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService("different-secret", time.Hour, 24*time.Hour, newMemBlacklist())

	access, _, err := other.Issue(uuid.New())
	require.NoError(t, err)

	_, err = svc.VerifyAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute, 24*time.Hour, newMemBlacklist())

	access, _, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	_, err = svc.VerifyAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRotatesAndBlacklistsOldToken(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.New()

	_, refresh, err := svc.Issue(userID)
	require.NoError(t, err)

	ctx := context.Background()

	newAccess, newRefresh, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	require.NotEmpty(t, newAccess)
	require.NotEqual(t, refresh, newRefresh)

	got, err := svc.VerifyAccess(newAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	// The consumed refresh token is blacklisted and cannot be replayed.
	_, _, err = svc.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The rotated token still works.
	_, _, err = svc.Refresh(ctx, newRefresh)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestTokenService()

	access, _, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenSubjectIsAccountID(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.New()

	access, _, err := svc.Issue(userID)
	require.NoError(t, err)

	var claims Claims
	_, err = jwt.ParseWithClaims(access, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "access", claims.TokenType)
}
