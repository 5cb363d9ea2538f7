package session

import (
	"context"
	"errors"
	"time"

	appErr "draw-poker/pkg/errors"

	"github.com/redis/go-redis/v9"
)

const nameKeyPrefix = "poker:session:name:"

// NameStore keeps the display name chosen for each issued identity.
type NameStore interface {
	SaveName(ctx context.Context, identity, name string, ttl time.Duration) error
	// LoadName returns appErr.ErrSessionNotFound for unknown or expired identities.
	LoadName(ctx context.Context, identity string) (string, error)
}

type RedisNameStore struct {
	rdb *redis.Client
}

func NewRedisNameStore(rdb *redis.Client) *RedisNameStore {
	return &RedisNameStore{rdb: rdb}
}

func (s *RedisNameStore) SaveName(ctx context.Context, identity, name string, ttl time.Duration) error {
	return s.rdb.Set(ctx, nameKeyPrefix+identity, name, ttl).Err()
}

func (s *RedisNameStore) LoadName(ctx context.Context, identity string) (string, error) {
	name, err := s.rdb.Get(ctx, nameKeyPrefix+identity).Result()
	if errors.Is(err, redis.Nil) {
		return "", appErr.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
