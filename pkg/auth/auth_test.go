package auth

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayokitanulis/ayokitanulis/pkg/binder"
	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/ayokitanulis/ayokitanulis/pkg/migrations"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-jwt-secret"

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

func newTestHasher() *Hasher {
	return NewHasher(config.PasswordHashBcrypt).WithBcryptCost(bcrypt.MinCost)
}

func newTestService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(db, newTestHasher(), testSecret, time.Hour), db
}

func insertWriter(t *testing.T, svc *Service, id, password, role string) {
	t.Helper()
	hash, err := svc.hasher.Hash(password)
	require.NoError(t, err)
	_, err = svc.db.NewInsert().Model(&models.Writer{
		ID:           id,
		PasswordHash: hash,
		Role:         role,
	}).Exec(context.Background())
	require.NoError(t, err)
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	return e
}

func newTestContext(t *testing.T, payload, method, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := newTestEcho(t)
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}
