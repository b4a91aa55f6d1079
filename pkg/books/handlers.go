package books

import (
	"net/http"

	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/mutation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
)

const homeLimit = 6

type handler struct {
	bookService *Service
	finisher    *mutation.Finisher
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewBookResponse(book)))
}

// home is the landing page: the most recently published books.
func (h *handler) home(c echo.Context) error {
	ctx := c.Request().Context()

	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		Limit: pointerutil.Int(homeLimit),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, ListResponse{NewBookResponses(books), total}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, ListResponse{NewBookResponses(books), total}))
}

func (h *handler) explore(c echo.Context) error {
	ctx := c.Request().Context()

	params := ExploreQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListBooksOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	}
	if params.Search != "" {
		opts.Search = pointerutil.String(params.Search)
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, ListResponse{NewBookResponses(books), total}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	identity := auth.IdentityFromEchoContext(c)

	params := BookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if params.WriterID != "" && params.WriterID != identity.ID {
		logger.FromContext(ctx).Warn("ignoring writer_id from payload", logger.Data{
			"writer_id":  identity.ID,
			"payload_id": params.WriterID,
		})
	}

	book, err := h.bookService.CreateBook(ctx, identity, params.options())
	if err != nil {
		return err
	}

	return h.finisher.Finish(c, mutation.Outcome{
		Status:     http.StatusCreated,
		Entity:     NewBookResponse(book),
		Redirect:   mutation.PathStudio,
		Invalidate: mutation.BookPaths(book),
	})
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	identity := auth.IdentityFromEchoContext(c)

	params := BookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if params.WriterID != "" && params.WriterID != identity.ID {
		logger.FromContext(ctx).Warn("ignoring writer_id from payload", logger.Data{
			"writer_id":  identity.ID,
			"payload_id": params.WriterID,
		})
	}

	before, after, err := h.bookService.UpdateBook(ctx, identity, c.Param("id"), params.options())
	if err != nil {
		return err
	}

	return h.finisher.Finish(c, mutation.Outcome{
		Entity:     NewBookResponse(after),
		Redirect:   mutation.PathBooks,
		Invalidate: mutation.BookPaths(before, after),
	})
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.bookService.DeleteBook(ctx, auth.IdentityFromEchoContext(c), c.Param("id"))
	if err != nil {
		return err
	}

	return h.finisher.Finish(c, mutation.Outcome{
		Redirect:   mutation.PathStudio,
		Invalidate: mutation.BookPaths(book),
	})
}

// studio is the signed-in writer's workspace. It only ever shows their own
// books.
func (h *handler) studio(c echo.Context) error {
	ctx := c.Request().Context()
	identity := auth.IdentityFromEchoContext(c)

	books, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		WriterID: &identity.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	counts, err := h.bookService.CountByGenre(ctx, &identity.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	stats := StudioStats{
		TotalBooks:  len(books),
		GenreCounts: make(map[string]int, len(counts)),
	}
	for g, n := range counts {
		stats.GenreCounts[g.Slug()] = n
	}
	for _, b := range books {
		if b.HasDocument() {
			stats.WithDocument++
		}
	}
	if len(books) > 0 {
		stats.LatestBookID = &books[0].ID
	}

	return errors.WithStack(c.JSON(http.StatusOK, StudioResponse{
		Writer: identity,
		Books:  NewBookResponses(books),
		Stats:  stats,
	}))
}
