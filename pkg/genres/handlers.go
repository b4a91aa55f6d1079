package genres

import (
	"net/http"

	"github.com/ayokitanulis/ayokitanulis/pkg/books"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	genreService *Service
}

type genreBooksResponse struct {
	Genre *Genre                `json:"genre"`
	Books []*books.BookResponse `json:"books"`
	Total int                   `json:"total"`
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	genres, err := h.genreService.ListGenres(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"genres": genres,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	genre, err := h.genreService.RetrieveGenre(ctx, c.Param("slug"))
	if err != nil {
		return errors.WithStack(err)
	}

	params := ListGenreBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	list, total, err := h.genreService.ListGenreBooks(ctx, genre, ListGenreBooksOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, genreBooksResponse{
		Genre: genre,
		Books: books.NewBookResponses(list),
		Total: total,
	}))
}
