package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type RetrieveBookOptions struct {
	ID *string
}

type ListBooksOptions struct {
	Limit    *int
	Offset   *int
	Genre    *models.Genre
	WriterID *string
	// Search matches title or author, case-insensitively.
	Search *string

	includeTotal bool
}

// BookOptions carries the editable fields of a book.
type BookOptions struct {
	Title       string
	Author      string
	Genre       models.Genre
	Synopsis    string
	DocumentURL *string
}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// CreateBook stores a new book owned by the actor. The owner always comes from
// the actor, never from the payload.
func (svc *Service) CreateBook(ctx context.Context, actor *models.Identity, opts BookOptions) (*models.Book, error) {
	log := logger.FromContext(ctx)

	if actor == nil {
		return nil, errcodes.Unauthorized("Authentication required")
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	now := svc.now()
	book := &models.Book{
		ID:            id.String(),
		CreatedAt:     now,
		UpdatedAt:     now,
		Title:         opts.Title,
		Author:        opts.Author,
		Genre:         opts.Genre,
		Synopsis:      opts.Synopsis,
		DocumentURL:   opts.DocumentURL,
		PublishedDate: now,
		WriterID:      actor.ID,
	}

	_, err = svc.db.NewInsert().Model(book).Exec(ctx)
	if err != nil {
		log.Err(err).Error("failed to create book", logger.Data{"writer_id": actor.ID})
		return nil, errcodes.PersistenceFailure("Failed to create book")
	}

	log.Info("book created", logger.Data{"book_id": book.ID, "writer_id": actor.ID})

	return book, nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Order("b.published_date DESC", "b.id ASC")

	if opts.Genre != nil {
		q = q.Where("b.genre = ?", *opts.Genre)
	}
	if opts.WriterID != nil {
		q = q.Where("b.writer_id = ?", *opts.WriterID)
	}
	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		pattern := "%" + likeEscaper.Replace(strings.TrimSpace(*opts.Search)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where(`b.title LIKE ? ESCAPE '\'`, pattern).
				WhereOr(`b.author LIKE ? ESCAPE '\'`, pattern)
		})
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

// UpdateBook replaces the editable fields of a book. Only the owner or the
// admin may do this. It returns the book as it was before and after.
func (svc *Service) UpdateBook(ctx context.Context, actor *models.Identity, id string, opts BookOptions) (*models.Book, *models.Book, error) {
	log := logger.FromContext(ctx)

	before, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanModifyBook(before) {
		return nil, nil, errcodes.Forbidden("You can only edit your own books")
	}

	after := *before
	after.Title = opts.Title
	after.Author = opts.Author
	after.Genre = opts.Genre
	after.Synopsis = opts.Synopsis
	after.DocumentURL = opts.DocumentURL
	after.UpdatedAt = svc.now()

	_, err = svc.db.NewUpdate().
		Model(&after).
		Column("title", "author", "genre", "synopsis", "document_url", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		log.Err(err).Error("failed to update book", logger.Data{"book_id": id})
		return nil, nil, errcodes.PersistenceFailure("Failed to update book")
	}

	log.Info("book updated", logger.Data{"book_id": id, "by": actor.ID})

	return before, &after, nil
}

// DeleteBook removes a book. Only the owner or the admin may do this.
func (svc *Service) DeleteBook(ctx context.Context, actor *models.Identity, id string) (*models.Book, error) {
	log := logger.FromContext(ctx)

	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return nil, err
	}
	if !actor.CanModifyBook(book) {
		return nil, errcodes.Forbidden("You can only delete your own books")
	}

	res, err := svc.db.NewDelete().
		Model((*models.Book)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		log.Err(err).Error("failed to delete book", logger.Data{"book_id": id})
		return nil, errcodes.PersistenceFailure("Failed to delete book")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errcodes.NotFound("Book")
	}

	log.Info("book deleted", logger.Data{"book_id": id, "by": actor.ID})

	return book, nil
}

// CountByGenre returns how many books each genre has. Every genre is present.
func (svc *Service) CountByGenre(ctx context.Context, writerID *string) (map[models.Genre]int, error) {
	rows := []struct {
		Genre models.Genre `bun:"genre"`
		Count int          `bun:"count"`
	}{}

	q := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Column("b.genre").
		ColumnExpr("COUNT(*) AS count").
		Group("b.genre")
	if writerID != nil {
		q = q.Where("b.writer_id = ?", *writerID)
	}

	if err := q.Scan(ctx, &rows); err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make(map[models.Genre]int, len(models.Genres))
	for _, g := range models.Genres {
		counts[g] = 0
	}
	for _, r := range rows {
		counts[r.Genre] = r.Count
	}
	return counts, nil
}
