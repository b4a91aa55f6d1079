package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/binder"
	"github.com/ayokitanulis/ayokitanulis/pkg/books"
	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/ayokitanulis/ayokitanulis/pkg/genres"
	"github.com/ayokitanulis/ayokitanulis/pkg/mutation"
	"github.com/ayokitanulis/ayokitanulis/pkg/pagecache"
	"github.com/ayokitanulis/ayokitanulis/pkg/testutils"
	"github.com/ayokitanulis/ayokitanulis/pkg/uploads"
	"github.com/ayokitanulis/ayokitanulis/pkg/writers"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, cache pagecache.Cache) (*http.Server, error) {
	e, err := newEcho(cfg, db, cache)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB, cache pagecache.Cache) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	if cache == nil {
		cache = pagecache.Nop{}
	}
	finisher := mutation.NewFinisher(cache)

	hasher := auth.NewHasher(cfg.PasswordHashAlgorithm)
	authService := auth.NewService(db, hasher, cfg.JWTSecret, cfg.SessionExpiry)
	authMiddleware := auth.NewMiddleware(authService)
	auth.RegisterRoutes(e, authService, authMiddleware)

	// Everything under /admin requires the admin role.
	admin := e.Group(mutation.PathAdmin)
	admin.Use(authMiddleware.Authenticate)
	admin.Use(authMiddleware.RequireAdmin)

	writers.RegisterRoutes(e, admin, writers.NewService(db, hasher), authMiddleware, finisher, cache)
	config.RegisterRoutesWithGroup(admin, cfg)

	bookService := books.NewService(db)
	books.RegisterRoutes(e, bookService, authMiddleware, finisher, cache)
	genres.RegisterRoutes(e, bookService, authMiddleware, cache)

	uploads.RegisterRoutes(e, uploads.NewService(cfg), authMiddleware)

	if cfg.Environment == config.EnvironmentTest {
		testutils.RegisterRoutes(e, db, hasher, cache)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
