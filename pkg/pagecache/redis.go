package pagecache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/encoding/json"
)

const keyPrefix = "page:"

// Redis keeps one hash per path with a field per query string variant.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(path string) string {
	return keyPrefix + path
}

func (r *Redis) Get(ctx context.Context, path, variant string) (*Page, error) {
	b, err := r.client.HGet(ctx, key(path), variant).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	page := &Page{}
	if err := json.Unmarshal(b, page); err != nil {
		// Drop the unreadable entry so the next request repopulates it.
		r.client.HDel(ctx, key(path), variant)
		return nil, errors.WithStack(err)
	}
	return page, nil
}

func (r *Redis) Set(ctx context.Context, path, variant string, page *Page) error {
	b, err := json.Marshal(page)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key(path), variant, b)
		if r.ttl > 0 {
			pipe.Expire(ctx, key(path), r.ttl)
		}
		return nil
	})
	return errors.WithStack(err)
}

func (r *Redis) Invalidate(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = key(p)
	}
	return errors.WithStack(r.client.Del(ctx, keys...).Err())
}

func (r *Redis) Close() error {
	return errors.WithStack(r.client.Close())
}
