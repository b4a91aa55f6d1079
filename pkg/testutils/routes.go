// Package testutils provides test-only API endpoints for seeding and resetting
// data from browser tests. These routes are only registered when
// ENVIRONMENT=test.
package testutils

import (
	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/pagecache"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers test-only routes.
// These endpoints should ONLY be registered in test environments.
func RegisterRoutes(e *echo.Echo, db *bun.DB, hasher *auth.Hasher, cache pagecache.Cache) {
	h := &handler{db: db, hasher: hasher, cache: cache}

	test := e.Group("/test")
	test.POST("/writers", h.createWriter)
	test.POST("/books", h.createBook)
	test.DELETE("/data", h.deleteAll)
}
