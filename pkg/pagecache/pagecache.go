// Package pagecache caches the rendered responses of public read views and
// drops them when a mutation changes what they show.
package pagecache

import (
	"context"
	"time"

	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Page is one cached response.
type Page struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Cache stores pages by path. A path can hold several variants, one per
// distinct query string, and invalidating the path drops all of them.
type Cache interface {
	// Get returns nil without an error on a miss.
	Get(ctx context.Context, path, variant string) (*Page, error)
	Set(ctx context.Context, path, variant string, page *Page) error
	Invalidate(ctx context.Context, paths ...string) error
}

// New returns a Redis-backed cache when cfg.RedisURL is set and a no-op cache
// otherwise.
func New(ctx context.Context, cfg *config.Config) (Cache, error) {
	if cfg.RedisURL == "" {
		return Nop{}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis_url")
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to connect to redis")
	}

	return NewRedis(client, cfg.PageCacheTTL), nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, string) (*Page, error) { return nil, nil }
func (Nop) Set(context.Context, string, string, *Page) error   { return nil }
func (Nop) Invalidate(context.Context, ...string) error        { return nil }
