package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/mdobak/go-xerrors"
)

const scanBatch = 100

// RedisCache shares rendered pages between server instances. Only keys under
// prefix are touched by InvalidateAll.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(client *redis.Client, ttl time.Duration, prefix string) (*RedisCache, error) {
	if ttl <= 0 {
		return nil, xerrors.New(ErrInvalidTTL)
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	content, err := c.client.WithContext(ctx).Get(c.prefix + key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, xerrors.New(err)
	}
	return content, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, content []byte) error {
	if err := c.client.WithContext(ctx).Set(c.prefix+key, content, c.ttl).Err(); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (c *RedisCache) InvalidateAll(ctx context.Context) error {
	client := c.client.WithContext(ctx)

	var cursor uint64
	for {
		keys, next, err := client.Scan(cursor, c.prefix+"*", scanBatch).Result()
		if err != nil {
			return xerrors.New(err)
		}
		if len(keys) > 0 {
			if err := client.Del(keys...).Err(); err != nil {
				return xerrors.New(err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
