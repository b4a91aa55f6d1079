// Package mutation finishes a successful write: it drops the cached pages the
// write affected and answers the caller the way it asked.
package mutation

import (
	"mime"
	"net/http"
	"strings"

	"github.com/ayokitanulis/ayokitanulis/pkg/pagecache"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Outcome describes a successful mutation.
type Outcome struct {
	// Status is used for JSON callers. It defaults to 200.
	Status int
	// Entity is the created or updated record, if any.
	Entity interface{}
	// Redirect is the canonical page to show next.
	Redirect string
	// Invalidate lists the cached paths whose content changed.
	Invalidate []string
}

// Response is the JSON body of a successful mutation.
type Response struct {
	Data     interface{} `json:"data,omitempty"`
	Redirect string      `json:"redirect"`
}

type Finisher struct {
	cache pagecache.Cache
}

func NewFinisher(cache pagecache.Cache) *Finisher {
	if cache == nil {
		cache = pagecache.Nop{}
	}
	return &Finisher{cache: cache}
}

// Finish invalidates the affected pages and responds. The write has already
// been committed, so a cache failure is logged rather than returned.
func (f *Finisher) Finish(c echo.Context, o Outcome) error {
	if len(o.Invalidate) > 0 {
		if err := f.cache.Invalidate(c.Request().Context(), o.Invalidate...); err != nil {
			logger.FromContext(c.Request().Context()).Err(err).Error("failed to invalidate cached pages", logger.Data{"paths": o.Invalidate})
		}
	}
	return Respond(c, o.Status, o.Entity, o.Redirect)
}

// Respond sends form submissions to redirect with a 303 and gives JSON callers
// the entity, the redirect target, and a Location header.
func Respond(c echo.Context, status int, entity interface{}, redirect string) error {
	if IsFormSubmission(c.Request()) {
		return errors.WithStack(c.Redirect(http.StatusSeeOther, redirect))
	}
	if status == 0 {
		status = http.StatusOK
	}
	c.Response().Header().Set(echo.HeaderLocation, redirect)
	return errors.WithStack(c.JSON(status, Response{Data: entity, Redirect: redirect}))
}

// IsFormSubmission reports whether the request came from an HTML form that
// expects to be redirected, as opposed to a client that wants JSON back.
func IsFormSubmission(req *http.Request) bool {
	mediatype, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if err != nil {
		return false
	}
	if mediatype != echo.MIMEApplicationForm && mediatype != echo.MIMEMultipartForm {
		return false
	}
	return !strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
