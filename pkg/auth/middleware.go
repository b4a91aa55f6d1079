package auth

import (
	"fmt"

	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

// Middleware provides the authorization gate. Every route declares the state
// it needs: anonymous, any signed-in writer, or the admin.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate requires a valid session and stores the identity on the
// context. Anything else is a 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return errcodes.Unauthorized("Authentication required")
		}

		identity, err := m.authService.Reconstruct(c.Request().Context(), cookie.Value)
		if err != nil {
			logger.FromEchoContext(c).Err(err).Debug("rejected session")
			return errcodes.Unauthorized("Invalid or expired session")
		}

		setIdentity(c, identity)
		return next(c)
	}
}

// AuthenticateOptional stores the identity when a valid session is present and
// otherwise lets the request through anonymously.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(CookieName)
		if err == nil && cookie.Value != "" {
			identity, err := m.authService.Reconstruct(c.Request().Context(), cookie.Value)
			if err == nil {
				setIdentity(c, identity)
			}
		}
		return next(c)
	}
}

// RequireAdmin must be used after Authenticate. Signed-in writers get a 403
// naming who they are and what was required.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := IdentityFromEchoContext(c)
		if identity == nil {
			return errcodes.Unauthorized("Authentication required")
		}
		if !identity.IsAdmin() {
			return errcodes.Forbidden(fmt.Sprintf("Writer %q does not have the admin role required for this page", identity.ID))
		}
		return next(c)
	}
}
