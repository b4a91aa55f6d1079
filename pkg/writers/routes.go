package writers

import (
	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/mutation"
	"github.com/ayokitanulis/ayokitanulis/pkg/pagecache"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the public author directory on e and the writer
// administration routes on admin, which must already require the admin role.
func RegisterRoutes(e *echo.Echo, admin *echo.Group, writerService *Service, authMiddleware *auth.Middleware, finisher *mutation.Finisher, cache pagecache.Cache) {
	h := &handler{
		writerService: writerService,
		finisher:      finisher,
	}

	e.GET("/authors", h.authors, authMiddleware.AuthenticateOptional, pagecache.Middleware(cache))

	admin.GET("", h.dashboard)
	admin.GET("/writers/view", h.list)
	admin.POST("/writers/create", h.create)
	admin.POST("/writers/:id", h.update)
	admin.DELETE("/writers/:id", h.delete)
}
