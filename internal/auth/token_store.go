package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pizzeria/internal/cache"
	"pizzeria/internal/model"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
	sessionKeyPrefix      = "session:"
)

// SessionSnapshot is the last known profile of a signed-in user. It is
// served before the authoritative profile is read and never grants access.
type SessionSnapshot struct {
	UserID   string     `json:"user_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	StoredAt time.Time  `json:"stored_at"`
}

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
	StoreSession(ctx context.Context, snapshot SessionSnapshot, ttl time.Duration) error
	GetSession(ctx context.Context, userID string) (*SessionSnapshot, error)
	DeleteSession(ctx context.Context, userID string) error
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, []byte(userID), ttl)
}

// GetRefreshToken returns the user a refresh token was issued to.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil || data == nil {
		return "", fmt.Errorf("refresh token not found")
	}
	return string(data), nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, accessTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, accessTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil // Not blacklisted if error (fail safe)
	}
	return data != nil, nil
}

// StoreSession caches the session snapshot of a user.
func (s *TokenStore) StoreSession(ctx context.Context, snapshot SessionSnapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+snapshot.UserID, payload, ttl)
}

// GetSession returns the cached snapshot, or nil when there is none.
func (s *TokenStore) GetSession(ctx context.Context, userID string) (*SessionSnapshot, error) {
	var snapshot SessionSnapshot
	if !s.cache.GetJSON(ctx, sessionKeyPrefix+userID, &snapshot) {
		return nil, nil
	}
	return &snapshot, nil
}

// DeleteSession drops the cached snapshot.
func (s *TokenStore) DeleteSession(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+userID)
}
