package books

import (
	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/mutation"
	"github.com/ayokitanulis/ayokitanulis/pkg/pagecache"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the home page and the book, explore, and studio
// routes. Public reads go through the page cache; mutations invalidate it.
func RegisterRoutes(e *echo.Echo, bookService *Service, authMiddleware *auth.Middleware, finisher *mutation.Finisher, cache pagecache.Cache) {
	h := &handler{
		bookService: bookService,
		finisher:    finisher,
	}

	cached := pagecache.Middleware(cache)

	g := e.Group("/books")
	g.GET("", h.list, authMiddleware.AuthenticateOptional, cached)
	g.GET("/:id", h.retrieve, authMiddleware.AuthenticateOptional, cached)
	g.POST("", h.create, authMiddleware.Authenticate)
	g.POST("/:id", h.update, authMiddleware.Authenticate)
	g.DELETE("/:id", h.delete, authMiddleware.Authenticate)

	e.GET(mutation.PathHome, h.home, authMiddleware.AuthenticateOptional, cached)
	e.GET("/explore", h.explore, authMiddleware.AuthenticateOptional, cached)
	e.GET("/user", h.studio, authMiddleware.Authenticate)
}
