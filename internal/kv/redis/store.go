package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "edulearn:"

// Store is a Redis-backed implementation of kv.Store. Useful when several
// machines should see the same session (e.g. a lab of thin clients), at the
// cost of a running Redis. Values are stored without TTL; lifecycle is
// managed by explicit deletes (logout, submission completion).
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, keyPrefix+key, value, 0).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
