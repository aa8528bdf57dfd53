package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/daybook-app/daybook-backend/internal/database"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// BlacklistKeyPrefix is the Redis key prefix for revoked refresh tokens.
	BlacklistKeyPrefix = "token_blacklist:"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

// Claims carries the account identity inside issued tokens. TokenType
// distinguishes access from refresh so one can never stand in for the other.
type Claims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Blacklist records revoked refresh-token ids until they expire on their own.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisBlacklist struct{}

func (redisBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return database.RedisClient.Set(ctx, BlacklistKeyPrefix+jti, "1", ttl).Err()
}

func (redisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := database.RedisClient.Exists(ctx, BlacklistKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TokenService issues, refreshes, and verifies bearer tokens. Refresh tokens
// rotate: each refresh blacklists the old token and returns a new pair.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  Blacklist
}

// NewTokenService builds a token service signing with HS256.
// A nil blacklist defaults to the Redis-backed implementation.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, blacklist Blacklist) *TokenService {
	if blacklist == nil {
		blacklist = redisBlacklist{}
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  blacklist,
	}
}

// Issue returns a fresh access/refresh token pair for an account.
func (s *TokenService) Issue(userID uuid.UUID) (access string, refresh string, err error) {
	now := time.Now()

	access, err = s.sign(userID, tokenTypeAccess, now, s.accessTTL)
	if err != nil {
		return "", "", err
	}

	refresh, err = s.sign(userID, tokenTypeRefresh, now, s.refreshTTL)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// Refresh validates a refresh token, rotates it, and returns a new pair.
// The consumed token's jti is blacklisted for its remaining lifetime.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (access string, refresh string, err error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", "", err
	}
	if revoked {
		return "", "", ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	access, refresh, err = s.Issue(userID)
	if err != nil {
		return "", "", err
	}

	if err := s.Revoke(ctx, claims); err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// Revoke blacklists a refresh token until its natural expiry.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.blacklist.Revoke(ctx, claims.ID, ttl)
}

// VerifyAccess validates an access token and returns the account id.
func (s *TokenService) VerifyAccess(tokenString string) (uuid.UUID, error) {
	claims, err := s.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}

func (s *TokenService) sign(userID uuid.UUID, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:    userID.String(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) parse(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
