package auth

import (
	"context"

	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	contextKeyIdentity contextKey = "identity"
	echoKeyIdentity               = "identity"
)

// WithIdentity returns a copy of ctx carrying the identity.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, identity)
}

// IdentityFromContext returns the identity of the request, or nil when the
// request is anonymous.
func IdentityFromContext(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(contextKeyIdentity).(*models.Identity)
	return identity
}

// IdentityFromEchoContext returns the identity set by the middleware, or nil.
func IdentityFromEchoContext(c echo.Context) *models.Identity {
	identity, _ := c.Get(echoKeyIdentity).(*models.Identity)
	return identity
}

func setIdentity(c echo.Context, identity *models.Identity) {
	c.Set(echoKeyIdentity, identity)
	c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), identity)))
}
