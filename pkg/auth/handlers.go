package auth

import (
	"net/http"

	"github.com/ayokitanulis/ayokitanulis/pkg/mutation"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// CookieName is the name of the session cookie.
const CookieName = "ayokitanulis_session"

type handler struct {
	authService *Service
}

func (h *handler) sessionCookie(c echo.Context, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *handler) startSession(c echo.Context, identity *models.Identity) error {
	token, err := h.authService.GenerateToken(identity)
	if err != nil {
		return errors.WithStack(err)
	}
	c.SetCookie(h.sessionCookie(c, token, int(h.authService.expiry.Seconds())))
	return nil
}

func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	identity, err := h.authService.Authenticate(ctx, params.ID, params.Password)
	if err != nil {
		return err
	}

	if err := h.startSession(c, identity); err != nil {
		return err
	}

	log.Info("signed in", logger.Data{"writer_id": identity.ID, "role": identity.Role})

	return mutation.Respond(c, http.StatusOK, buildMeResponse(identity), landingPage(identity))
}

func (h *handler) logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie(c, "", -1))
	return mutation.Respond(c, http.StatusOK, nil, "/")
}

func (h *handler) me(c echo.Context) error {
	identity := IdentityFromEchoContext(c)
	if identity == nil {
		return errors.New("identity missing from authenticated request")
	}
	return errors.WithStack(c.JSON(http.StatusOK, buildMeResponse(identity)))
}

func (h *handler) status(c echo.Context) error {
	needsSetup, err := h.authService.NeedsSetup(c.Request().Context())
	if err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, StatusResponse{NeedsSetup: needsSetup}))
}

// setup creates the admin record and signs it in.
func (h *handler) setup(c echo.Context) error {
	ctx := c.Request().Context()

	needsSetup, err := h.authService.NeedsSetup(ctx)
	if err != nil {
		return err
	}
	if !needsSetup {
		return ErrSetupCompleted
	}

	params := SetupPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	identity, err := h.authService.SetupAdmin(ctx, params.Password)
	if err != nil {
		return err
	}

	if err := h.startSession(c, identity); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("admin account created")

	return mutation.Respond(c, http.StatusCreated, buildMeResponse(identity), landingPage(identity))
}
