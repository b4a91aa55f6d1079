package writers

import (
	"net/http"

	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/ayokitanulis/ayokitanulis/pkg/mutation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	writerService *Service
	finisher      *mutation.Finisher
}

type listResponse struct {
	Writers []*models.Writer `json:"writers"`
	Total   int              `json:"total"`
}

func (h *handler) dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	dashboard, err := h.writerService.Dashboard(ctx, auth.IdentityFromEchoContext(c))
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, dashboard))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListWritersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	writers, total, err := h.writerService.List(ctx, ListOptions{
		Role:   models.RoleWriter,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, listResponse{writers, total}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateWriterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	writer, err := h.writerService.Create(ctx, auth.IdentityFromEchoContext(c), CreateWriterOptions(params))
	if err != nil {
		return err
	}

	return h.finisher.Finish(c, mutation.Outcome{
		Status:     http.StatusCreated,
		Entity:     writer,
		Redirect:   mutation.PathAdmin,
		Invalidate: []string{mutation.PathAuthors},
	})
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateWriterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	writer, err := h.writerService.UpdatePassword(ctx, auth.IdentityFromEchoContext(c), c.Param("id"), params.Password)
	if err != nil {
		return err
	}

	return h.finisher.Finish(c, mutation.Outcome{
		Entity:   writer,
		Redirect: mutation.PathAdminWriters,
	})
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.writerService.Delete(ctx, auth.IdentityFromEchoContext(c), c.Param("id"))
	if err != nil {
		return err
	}

	return h.finisher.Finish(c, mutation.Outcome{
		Redirect:   mutation.PathAdminWriters,
		Invalidate: mutation.BookPaths(books...),
	})
}

type authorsQuery struct {
	Limit  int `query:"limit" json:"limit" default:"50" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset" validate:"min=0"`
}

// authors lists every writer with their books. The admin isn't an author.
func (h *handler) authors(c echo.Context) error {
	ctx := c.Request().Context()

	params := authorsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	writers, total, err := h.writerService.List(ctx, ListOptions{
		Role:      models.RoleWriter,
		WithBooks: true,
		Limit:     params.Limit,
		Offset:    params.Offset,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, listResponse{writers, total}))
}
