package writers

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ayokitanulis/ayokitanulis/pkg/database"
	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// ErrDuplicateID is returned when the requested writer id is taken. Ids are
// compared case-insensitively.
var ErrDuplicateID = errcodes.Conflict("This Writer ID already exists.")

// PasswordHasher turns a plaintext password into the stored hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Service handles writer records. Every mutation takes the acting identity and
// checks it again, independent of the route middleware.
type Service struct {
	db     *bun.DB
	hasher PasswordHasher
}

// NewService creates a new writers service.
func NewService(db *bun.DB, hasher PasswordHasher) *Service {
	return &Service{db: db, hasher: hasher}
}

// CreateWriterOptions contains options for creating a writer.
type CreateWriterOptions struct {
	ID       string
	Password string
}

// reservedIDs collide with static /admin/writers/* routes.
var reservedIDs = []string{"create", "view"}

// Create registers a new writer. Only the admin may do this.
func (s *Service) Create(ctx context.Context, actor *models.Identity, opts CreateWriterOptions) (*models.Writer, error) {
	log := logger.FromContext(ctx)

	if !actor.IsAdmin() {
		return nil, errcodes.AdminRequired()
	}
	if strings.EqualFold(opts.ID, models.AdminID) {
		return nil, ErrDuplicateID
	}
	for _, r := range reservedIDs {
		if strings.EqualFold(opts.ID, r) {
			return nil, errcodes.FieldValidationError("This Writer ID is reserved.", map[string][]string{
				"id": {"This Writer ID is reserved."},
			})
		}
	}

	hash, err := s.hasher.Hash(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	writer := &models.Writer{
		ID:           opts.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
		PasswordHash: hash,
		Role:         models.RoleWriter,
	}

	_, err = s.db.NewInsert().Model(writer).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return nil, ErrDuplicateID
	}
	if err != nil {
		log.Err(err).Error("failed to create writer", logger.Data{"writer_id": opts.ID})
		return nil, errcodes.PersistenceFailure("Failed to create writer")
	}

	log.Info("writer created", logger.Data{"writer_id": writer.ID, "by": actor.ID})

	return writer, nil
}

// Retrieve gets a writer by id along with their book count.
func (s *Service) Retrieve(ctx context.Context, id string) (*models.Writer, error) {
	writer := &models.Writer{}
	err := s.db.NewSelect().
		Model(writer).
		Column("w.*").
		ColumnExpr("(SELECT COUNT(*) FROM books AS b WHERE b.writer_id = w.id) AS book_count").
		Where("w.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errcodes.NotFound("Writer")
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return writer, nil
}

// ListOptions contains options for listing writers.
type ListOptions struct {
	Role      string
	WithBooks bool
	Limit     int
	Offset    int
}

// List returns writers ordered by id along with the total count.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.Writer, int, error) {
	writers := []*models.Writer{}

	query := s.db.NewSelect().
		Model(&writers).
		Column("w.*").
		ColumnExpr("(SELECT COUNT(*) FROM books AS b WHERE b.writer_id = w.id) AS book_count").
		Order("w.id ASC")

	if opts.Role != "" {
		query = query.Where("w.role = ?", opts.Role)
	}
	if opts.WithBooks {
		query = query.Relation("Books", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("b.published_date DESC", "b.id ASC")
		})
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return writers, total, nil
}

// UpdatePassword replaces a writer's password. Only the admin may do this.
func (s *Service) UpdatePassword(ctx context.Context, actor *models.Identity, id, password string) (*models.Writer, error) {
	log := logger.FromContext(ctx)

	if !actor.IsAdmin() {
		return nil, errcodes.AdminRequired()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	res, err := s.db.NewUpdate().
		Model((*models.Writer)(nil)).
		Set("password_hash = ?", hash).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		log.Err(err).Error("failed to update writer", logger.Data{"writer_id": id})
		return nil, errcodes.PersistenceFailure("Failed to update writer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errcodes.NotFound("Writer")
	}

	log.Info("writer password updated", logger.Data{"writer_id": id, "by": actor.ID})

	return s.Retrieve(ctx, id)
}

// Delete removes a writer and all of their books in one transaction. It
// returns the books that were removed. The admin can't delete themselves.
func (s *Service) Delete(ctx context.Context, actor *models.Identity, id string) ([]*models.Book, error) {
	log := logger.FromContext(ctx)

	if !actor.IsAdmin() {
		return nil, errcodes.AdminRequired()
	}
	if strings.EqualFold(actor.ID, id) {
		return nil, errcodes.Forbidden("You can't delete your own account")
	}

	books := []*models.Book{}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Writer)(nil)).
			Where("w.id = ?", id).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Writer")
		}

		err = tx.NewSelect().
			Model(&books).
			Where("b.writer_id = ?", id).
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("writer_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Writer)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
	var e *errcodes.Error
	if errors.As(err, &e) {
		return nil, err
	}
	if err != nil {
		log.Err(err).Error("failed to delete writer", logger.Data{"writer_id": id})
		return nil, errcodes.PersistenceFailure("Failed to delete writer")
	}

	log.Info("writer deleted", logger.Data{"writer_id": id, "books": len(books), "by": actor.ID})

	return books, nil
}

// Dashboard is the summary shown on the admin landing page.
type Dashboard struct {
	Name        string `json:"name"`
	WriterCount int    `json:"writer_count"`
	BookCount   int    `json:"book_count"`
}

func (s *Service) Dashboard(ctx context.Context, actor *models.Identity) (*Dashboard, error) {
	writerCount, err := s.db.NewSelect().
		Model((*models.Writer)(nil)).
		Where("w.role = ?", models.RoleWriter).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	bookCount, err := s.db.NewSelect().
		Model((*models.Book)(nil)).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Dashboard{
		Name:        actor.Name,
		WriterCount: writerCount,
		BookCount:   bookCount,
	}, nil
}
