package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront/internal/port"
)

const redisKeyPrefix = "storefront:"

type RedisAdapter struct {
	client *redis.Client
	prefix string
}

// NewRedisAdapter stores keys under "storefront:<namespace>:" so several
// devices or profiles can share one Redis.
func NewRedisAdapter(client *redis.Client, namespace string) *RedisAdapter {
	prefix := redisKeyPrefix
	if namespace != "" {
		prefix += namespace + ":"
	}
	return &RedisAdapter{client: client, prefix: prefix}
}

func (r *RedisAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisAdapter) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

var _ port.StateRepository = (*RedisAdapter)(nil)
