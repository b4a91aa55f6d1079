package testutils

import (
	"context"
	"net/http"
	"time"

	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/ayokitanulis/ayokitanulis/pkg/mutation"
	"github.com/ayokitanulis/ayokitanulis/pkg/pagecache"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db     *bun.DB
	hasher *auth.Hasher
	cache  pagecache.Cache
}

// createWriterRequest is the request body for creating a test writer. Role
// defaults to writer.
type createWriterRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" default:"writer" validate:"oneof=admin writer"`
}

// createWriter inserts a writer directly, skipping the admin-only checks.
// POST /test/writers.
func (h *handler) createWriter(c echo.Context) error {
	ctx := c.Request().Context()

	var req createWriterRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	writer := &models.Writer{
		ID:           req.ID,
		PasswordHash: hash,
		Role:         req.Role,
	}
	_, err = h.db.NewInsert().Model(writer).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create writer")
	}

	return c.JSON(http.StatusCreated, writer)
}

// createBookRequest is the request body for creating a test book. Unlike the
// real endpoint, the owner and publish date come from the request.
type createBookRequest struct {
	Title         string     `json:"title" validate:"required"`
	Author        string     `json:"author" default:"Test Author"`
	Genre         string     `json:"genre" default:"FICTION" validate:"oneof=FICTION NON_FICTION"`
	Synopsis      string     `json:"synopsis" default:"A synopsis for testing."`
	DocumentURL   *string    `json:"document_url"`
	PublishedDate *time.Time `json:"published_date"`
	WriterID      string     `json:"writer_id" validate:"required"`
}

// createBook inserts a book for the given writer.
// POST /test/books.
func (h *handler) createBook(c echo.Context) error {
	ctx := c.Request().Context()

	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	now := time.Now()
	published := now
	if req.PublishedDate != nil {
		published = *req.PublishedDate
	}

	book := &models.Book{
		ID:            uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
		Title:         req.Title,
		Author:        req.Author,
		Genre:         models.Genre(req.Genre),
		Synopsis:      req.Synopsis,
		DocumentURL:   req.DocumentURL,
		PublishedDate: published,
		WriterID:      req.WriterID,
	}
	_, err := h.db.NewInsert().Model(book).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create book")
	}

	if err := h.cache.Invalidate(ctx, mutation.BookPaths(book)...); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, book)
}

// deleteAllResponse is the response body for deleting all data.
type deleteAllResponse struct {
	Books   int `json:"books"`
	Writers int `json:"writers"`
}

// deleteAll deletes every book and writer, including the admin, so the next
// test starts from first-run setup.
// DELETE /test/data.
func (h *handler) deleteAll(c echo.Context) error {
	ctx := c.Request().Context()

	resp := deleteAllResponse{}
	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.Book)(nil)).Where("1=1").Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to delete books")
		}
		n, _ := res.RowsAffected()
		resp.Books = int(n)

		res, err = tx.NewDelete().Model((*models.Writer)(nil)).Where("1=1").Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to delete writers")
		}
		n, _ = res.RowsAffected()
		resp.Writers = int(n)
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.cache.Invalidate(ctx, mutation.BookPaths()...); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, resp)
}
