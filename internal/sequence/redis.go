package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey holds the counter when no key is configured.
const DefaultRedisKey = "ledger:sequence:v1"

// RedisSource shares one counter between processes using INCR.
type RedisSource struct {
	client *redis.Client
	key    string
}

// NewRedisSource prepares the counter key so the first id is seed. An existing
// key is left untouched, which keeps ids increasing across restarts.
func NewRedisSource(ctx context.Context, client *redis.Client, key string, seed int64) (*RedisSource, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if key == "" {
		key = DefaultRedisKey
	}
	if err := client.SetNX(ctx, key, seed-1, 0).Err(); err != nil {
		return nil, fmt.Errorf("seed redis sequence: %w", err)
	}
	return &RedisSource{client: client, key: key}, nil
}

// Next increments the shared counter.
func (s *RedisSource) Next(ctx context.Context) (int64, error) {
	id, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis sequence next: %w", err)
	}
	return id, nil
}
