package uploads

import (
	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, uploadService *Service, authMiddleware *auth.Middleware) {
	h := &handler{
		uploadService: uploadService,
	}

	e.POST("/uploads", h.create, authMiddleware.Authenticate)
}
