package allocator

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSet backs the issued-identifier set with a Redis set, giving
// uniqueness across processes when the service runs with more than one
// instance. SADD is atomic, so check-and-insert needs no extra locking.
type RedisSet struct {
	client *redis.Client
	key    string
}

// NewRedisSet creates a Redis-backed issued-set under the given key.
func NewRedisSet(client *redis.Client, key string) *RedisSet {
	if key == "" {
		key = "fundrace:issued-team-ids"
	}
	return &RedisSet{client: client, key: key}
}

func (s *RedisSet) TryAdd(ctx context.Context, id string) (bool, error) {
	added, err := s.client.SAdd(ctx, s.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("sadd issued id: %w", err)
	}
	return added == 1, nil
}

func (s *RedisSet) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear issued ids: %w", err)
	}
	return nil
}
