package config

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers config routes on a group that has
// already been restricted to admins.
func RegisterRoutesWithGroup(g *echo.Group, cfg *Config) {
	h := &handler{cfg: cfg}

	g.GET("/config", h.retrieve)
}
