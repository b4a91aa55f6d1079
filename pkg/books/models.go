package books

import (
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
)

// BookResponse is a book along with the genre's URL slug and display name.
type BookResponse struct {
	*models.Book
	GenreSlug   string `json:"genre_slug"`
	GenreName   string `json:"genre_name"`
	HasDocument bool   `json:"has_document"`
}

func NewBookResponse(b *models.Book) *BookResponse {
	return &BookResponse{
		Book:        b,
		GenreSlug:   b.Genre.Slug(),
		GenreName:   b.Genre.DisplayName(),
		HasDocument: b.HasDocument(),
	}
}

func NewBookResponses(books []*models.Book) []*BookResponse {
	resp := make([]*BookResponse, len(books))
	for i, b := range books {
		resp[i] = NewBookResponse(b)
	}
	return resp
}

// ListResponse is a page of books.
type ListResponse struct {
	Books []*BookResponse `json:"books"`
	Total int             `json:"total"`
}

// StudioStats summarizes a writer's own books.
type StudioStats struct {
	TotalBooks   int            `json:"total_books"`
	WithDocument int            `json:"with_document"`
	GenreCounts  map[string]int `json:"genre_counts"`
	LatestBookID *string        `json:"latest_book_id"`
}

// StudioResponse is the writer's workspace: who they are, their books, and
// some numbers about them.
type StudioResponse struct {
	Writer *models.Identity `json:"writer"`
	Books  []*BookResponse  `json:"books"`
	Stats  StudioStats      `json:"stats"`
}
