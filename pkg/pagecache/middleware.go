package pagecache

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

// HeaderCache reports whether a response was served from the cache.
const HeaderCache = "X-Cache"

type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Middleware serves GET requests from the cache and stores successful
// responses. The query string is normalized so parameter order doesn't matter.
func Middleware(cache Cache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet {
				return next(c)
			}

			ctx := req.Context()
			log := logger.FromEchoContext(c)
			path := req.URL.Path
			variant := req.URL.Query().Encode()

			page, err := cache.Get(ctx, path, variant)
			if err != nil {
				log.Err(err).Warn("page cache read failed")
			}
			if page != nil {
				c.Response().Header().Set(HeaderCache, "HIT")
				return c.Blob(page.Status, page.ContentType, page.Body)
			}

			c.Response().Header().Set(HeaderCache, "MISS")
			rec := &recorder{ResponseWriter: c.Response().Writer}
			c.Response().Writer = rec
			defer func() {
				c.Response().Writer = rec.ResponseWriter
			}()

			if err := next(c); err != nil {
				return err
			}

			if rec.status != http.StatusOK {
				return nil
			}
			err = cache.Set(ctx, path, variant, &Page{
				Status:      rec.status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        rec.body.Bytes(),
			})
			if err != nil {
				log.Err(err).Warn("page cache write failed")
			}
			return nil
		}
	}
}
