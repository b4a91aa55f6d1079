package genres

import (
	"context"

	"github.com/ayokitanulis/ayokitanulis/pkg/books"
	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/pkg/errors"
)

// Genre is a genre as it's shown to readers.
type Genre struct {
	Value     models.Genre `json:"value"`
	Slug      string       `json:"slug"`
	Name      string       `json:"name"`
	BookCount int          `json:"book_count"`
}

type ListGenreBooksOptions struct {
	Limit  *int
	Offset *int
}

type Service struct {
	bookService *books.Service
}

func NewService(bookService *books.Service) *Service {
	return &Service{bookService}
}

// ListGenres returns every genre in display order, including empty ones.
func (svc *Service) ListGenres(ctx context.Context) ([]*Genre, error) {
	counts, err := svc.bookService.CountByGenre(ctx, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	genres := make([]*Genre, len(models.Genres))
	for i, g := range models.Genres {
		genres[i] = &Genre{
			Value:     g,
			Slug:      g.Slug(),
			Name:      g.DisplayName(),
			BookCount: counts[g],
		}
	}
	return genres, nil
}

// RetrieveGenre looks a genre up by its URL slug.
func (svc *Service) RetrieveGenre(ctx context.Context, slug string) (*Genre, error) {
	g, ok := models.GenreFromSlug(slug)
	if !ok {
		return nil, errcodes.NotFound("Genre")
	}

	counts, err := svc.bookService.CountByGenre(ctx, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Genre{
		Value:     g,
		Slug:      g.Slug(),
		Name:      g.DisplayName(),
		BookCount: counts[g],
	}, nil
}

// ListGenreBooks returns a page of the genre's books, newest first.
func (svc *Service) ListGenreBooks(ctx context.Context, genre *Genre, opts ListGenreBooksOptions) ([]*models.Book, int, error) {
	list, total, err := svc.bookService.ListBooksWithTotal(ctx, books.ListBooksOptions{
		Limit:  opts.Limit,
		Offset: opts.Offset,
		Genre:  &genre.Value,
	})
	return list, total, errors.WithStack(err)
}
