package genres

import (
	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/books"
	"github.com/ayokitanulis/ayokitanulis/pkg/pagecache"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the public genre pages.
func RegisterRoutes(e *echo.Echo, bookService *books.Service, authMiddleware *auth.Middleware, cache pagecache.Cache) {
	h := &handler{
		genreService: NewService(bookService),
	}

	g := e.Group("/genres", authMiddleware.AuthenticateOptional, pagecache.Middleware(cache))
	g.GET("", h.list)
	g.GET("/:slug", h.retrieve)
}
