package cart

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Store persists serialized carts by user id.
type Store interface {
	// Load returns nil data when nothing was saved.
	Load(ctx context.Context, userID string) ([]byte, error)
	Save(ctx context.Context, userID string, data []byte) error
	Delete(ctx context.Context, userID string) error
}

// RedisStore keeps carts under "<namespace>:<user id>" without expiry.
type RedisStore struct {
	rdb       *redis.Client
	namespace string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a cart store on rdb.
func NewRedisStore(rdb *redis.Client, namespace string) *RedisStore {
	return &RedisStore{rdb: rdb, namespace: namespace}
}

// Key returns the redis key of a user's cart.
func (s *RedisStore) Key(userID string) string {
	return s.namespace + ":" + userID
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, userID string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, userID string, data []byte) error {
	return s.rdb.Set(ctx, s.Key(userID), data, 0).Err()
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, s.Key(userID)).Err()
}
