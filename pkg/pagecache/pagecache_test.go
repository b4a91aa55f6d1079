package pagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	return NewRedis(client, ttl), mr
}

func TestRedis_SetGetInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, _ := newTestCache(t, time.Minute)

	page, err := cache.Get(ctx, "/books", "")
	require.NoError(t, err)
	assert.Nil(t, page)

	err = cache.Set(ctx, "/books", "", &Page{Status: 200, ContentType: "application/json", Body: []byte(`[]`)})
	require.NoError(t, err)
	err = cache.Set(ctx, "/books", "page=2", &Page{Status: 200, ContentType: "application/json", Body: []byte(`[1]`)})
	require.NoError(t, err)

	page, err = cache.Get(ctx, "/books", "page=2")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, []byte(`[1]`), page.Body)

	err = cache.Invalidate(ctx, "/books", "/explore")
	require.NoError(t, err)

	page, err = cache.Get(ctx, "/books", "")
	require.NoError(t, err)
	assert.Nil(t, page)
	page, err = cache.Get(ctx, "/books", "page=2")
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestRedis_Expires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)

	err := cache.Set(ctx, "/genres", "", &Page{Status: 200, Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(key("/genres")))

	mr.FastForward(2 * time.Minute)

	page, err := cache.Get(ctx, "/genres", "")
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestRedis_CorruptEntryIsDropped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)

	mr.HSet(key("/authors"), "", "not json")

	page, err := cache.Get(ctx, "/authors", "")
	assert.Error(t, err)
	assert.Nil(t, page)
	assert.False(t, mr.Exists(key("/authors")))
}

func TestNew_WithoutRedisURL(t *testing.T) {
	t.Parallel()

	cache, err := New(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, cache)
}

func TestNew_WithRedisURL(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)

	cache, err := New(context.Background(), &config.Config{RedisURL: "redis://" + mr.Addr(), PageCacheTTL: time.Minute})
	require.NoError(t, err)
	require.IsType(t, &Redis{}, cache)
	require.NoError(t, cache.(*Redis).Close())
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	cache, _ := newTestCache(t, time.Minute)

	var calls atomic.Int32
	e := echo.New()
	e.GET("/books", func(c echo.Context) error {
		n := calls.Add(1)
		return c.JSON(http.StatusOK, map[string]int32{"calls": n})
	}, Middleware(cache))
	e.GET("/missing", func(c echo.Context) error {
		calls.Add(1)
		return c.JSON(http.StatusNotFound, map[string]string{"error": "nope"})
	}, Middleware(cache))

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		e.ServeHTTP(rr, req)
		return rr
	}

	rr := get("/books?b=2&a=1")
	assert.Equal(t, "MISS", rr.Header().Get(HeaderCache))
	assert.JSONEq(t, `{"calls":1}`, rr.Body.String())

	// Same parameters in a different order hit the same entry.
	rr = get("/books?a=1&b=2")
	assert.Equal(t, "HIT", rr.Header().Get(HeaderCache))
	assert.JSONEq(t, `{"calls":1}`, rr.Body.String())
	assert.Contains(t, rr.Header().Get(echo.HeaderContentType), "application/json")

	require.NoError(t, cache.Invalidate(context.Background(), "/books"))

	rr = get("/books?a=1&b=2")
	assert.Equal(t, "MISS", rr.Header().Get(HeaderCache))
	assert.JSONEq(t, `{"calls":2}`, rr.Body.String())

	// Errors aren't cached.
	get("/missing")
	rr = get("/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "MISS", rr.Header().Get(HeaderCache))
	assert.Equal(t, int32(4), calls.Load())
}
