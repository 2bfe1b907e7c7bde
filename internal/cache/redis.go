package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisScanBatch = 200

type redisCache struct {
	client *redis.Client
}

func newRedisCache(opts *redis.Options) (*redisCache, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "cache: could not reach redis")
	}
	return &redisCache{client: client}, nil
}

func (r *redisCache) get(key string) ([]byte, bool, error) {
	data, err := r.client.Get(context.Background(), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, errors.WithStack(err)
	}
	return data, true, nil
}

func (r *redisCache) set(key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return errors.WithStack(r.client.Set(context.Background(), key, value, ttl).Err())
}

func (r *redisCache) delete(key string) error {
	return errors.WithStack(r.client.Del(context.Background(), key).Err())
}

func (r *redisCache) clear(prefix string) error {
	ctx := context.Background()
	iter := r.client.Scan(ctx, 0, prefix+"*", redisScanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.WithStack(err)
	}
	if len(keys) == 0 {
		return nil
	}
	return errors.WithStack(r.client.Del(ctx, keys...).Err())
}
