package writers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ayokitanulis/ayokitanulis/pkg/auth"
	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/ayokitanulis/ayokitanulis/pkg/migrations"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/crypto/bcrypt"
)

var (
	adminIdentity  = &models.Identity{ID: models.AdminID, Name: models.AdminID, Role: models.RoleAdmin}
	writerIdentity = &models.Identity{ID: "doni123", Name: "doni123", Role: models.RoleWriter}
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func newTestHasher() *auth.Hasher {
	return auth.NewHasher(config.PasswordHashBcrypt).WithBcryptCost(bcrypt.MinCost)
}

func newTestService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewService(db, newTestHasher())

	_, err := db.NewInsert().Model(&models.Writer{
		ID:           models.AdminID,
		PasswordHash: "x",
		Role:         models.RoleAdmin,
	}).Exec(context.Background())
	require.NoError(t, err)

	return svc, db
}

func insertBook(t *testing.T, db *bun.DB, writerID string, genre models.Genre, published time.Time) *models.Book {
	t.Helper()
	book := &models.Book{
		ID:            uuid.NewString(),
		Title:         "Title " + writerID,
		Author:        "Author",
		Genre:         genre,
		Synopsis:      "0123456789",
		PublishedDate: published,
		WriterID:      writerID,
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
	return book
}

func TestCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	writer, err := svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: "doni123", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "doni123", writer.ID)
	assert.Equal(t, models.RoleWriter, writer.Role)
	assert.NotEqual(t, "secret1", writer.PasswordHash)

	authSvc := auth.NewService(svc.db, newTestHasher(), "secret", time.Hour)
	identity, err := authSvc.Authenticate(ctx, "doni123", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleWriter, identity.Role)
}

func TestCreate_Duplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: "doni123", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: "DONI123", Password: "secret2"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: "Admin", Password: "secret2"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 409, e.HTTPCode)
	assert.Equal(t, "This Writer ID already exists.", e.Message)
}

func TestCreate_ReservedRouteIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, id := range []string{"create", "view", "VIEW"} {
		_, err := svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: id, Password: "secret1"})
		var e *errcodes.Error
		require.ErrorAs(t, err, &e, id)
		assert.Equal(t, 422, e.HTTPCode, id)
		assert.Contains(t, e.Fields, "id", id)
	}

	count, err := svc.db.NewSelect().Model((*models.Writer)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreate_RequiresAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, db := newTestService(t)

	for _, actor := range []*models.Identity{nil, writerIdentity} {
		_, err := svc.Create(ctx, actor, CreateWriterOptions{ID: "eve123", Password: "secret1"})
		assert.ErrorIs(t, err, errcodes.AdminRequired())
	}

	count, err := db.NewSelect().Model((*models.Writer)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: "doni123", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.UpdatePassword(ctx, writerIdentity, "doni123", "hacked1")
	assert.ErrorIs(t, err, errcodes.AdminRequired())

	writer, err := svc.UpdatePassword(ctx, adminIdentity, "doni123", "secret2")
	require.NoError(t, err)
	assert.Equal(t, "doni123", writer.ID)

	authSvc := auth.NewService(svc.db, newTestHasher(), "secret", time.Hour)
	_, err = authSvc.Authenticate(ctx, "doni123", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = authSvc.Authenticate(ctx, "doni123", "secret2")
	assert.NoError(t, err)

	_, err = svc.UpdatePassword(ctx, adminIdentity, "nobody", "secret2")
	assert.ErrorIs(t, err, errcodes.NotFound("Writer"))
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, db := newTestService(t)

	_, err := svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: "doni123", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: "rina", Password: "secret1"})
	require.NoError(t, err)

	now := time.Now()
	b1 := insertBook(t, db, "doni123", models.GenreFiction, now)
	insertBook(t, db, "doni123", models.GenreNonFiction, now)
	kept := insertBook(t, db, "rina", models.GenreFiction, now)

	books, err := svc.Delete(ctx, adminIdentity, "doni123")
	require.NoError(t, err)
	assert.Len(t, books, 2)
	ids := []string{books[0].ID, books[1].ID}
	assert.Contains(t, ids, b1.ID)

	_, err = svc.Retrieve(ctx, "doni123")
	assert.ErrorIs(t, err, errcodes.NotFound("Writer"))

	remaining := []*models.Book{}
	err = db.NewSelect().Model(&remaining).Scan(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}

func TestDelete_Rejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: "doni123", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, writerIdentity, "doni123")
	assert.ErrorIs(t, err, errcodes.AdminRequired())

	_, err = svc.Delete(ctx, adminIdentity, "admin")
	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 403, e.HTTPCode)

	_, err = svc.Delete(ctx, adminIdentity, "nobody")
	assert.ErrorIs(t, err, errcodes.NotFound("Writer"))

	writer, err := svc.Retrieve(ctx, "doni123")
	require.NoError(t, err)
	assert.Equal(t, "doni123", writer.ID)
}

func TestList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, db := newTestService(t)

	for _, id := range []string{"zed", "ani", "mika"} {
		_, err := svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: id, Password: "secret1"})
		require.NoError(t, err)
	}
	older := insertBook(t, db, "mika", models.GenreFiction, time.Now().Add(-time.Hour))
	newer := insertBook(t, db, "mika", models.GenreFiction, time.Now())

	writers, total, err := svc.List(ctx, ListOptions{Role: models.RoleWriter, WithBooks: true})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, writers, 3)
	assert.Equal(t, "ani", writers[0].ID)
	assert.Equal(t, "mika", writers[1].ID)
	assert.Equal(t, "zed", writers[2].ID)

	assert.Equal(t, 2, writers[1].BookCount)
	require.Len(t, writers[1].Books, 2)
	assert.Equal(t, newer.ID, writers[1].Books[0].ID)
	assert.Equal(t, older.ID, writers[1].Books[1].ID)
	assert.Empty(t, writers[0].Books)

	writers, total, err = svc.List(ctx, ListOptions{Role: models.RoleWriter, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, writers, 1)
	assert.Equal(t, "mika", writers[0].ID)
}

func TestDashboard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, db := newTestService(t)

	_, err := svc.Create(ctx, adminIdentity, CreateWriterOptions{ID: "doni123", Password: "secret1"})
	require.NoError(t, err)
	insertBook(t, db, "doni123", models.GenreFiction, time.Now())

	dashboard, err := svc.Dashboard(ctx, adminIdentity)
	require.NoError(t, err)
	assert.Equal(t, &Dashboard{Name: "admin", WriterCount: 1, BookCount: 1}, dashboard)
}
