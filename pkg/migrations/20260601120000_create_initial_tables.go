package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE writers (
				id TEXT PRIMARY KEY COLLATE NOCASE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'writer' CHECK (role IN ('admin', 'writer'))
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// Only the reserved admin record may hold the admin role.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_writers_admin ON writers (role) WHERE role = 'admin'`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				author TEXT NOT NULL,
				genre TEXT NOT NULL CHECK (genre IN ('FICTION', 'NON_FICTION')),
				synopsis TEXT NOT NULL,
				document_url TEXT,
				published_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				writer_id TEXT NOT NULL REFERENCES writers (id) ON DELETE CASCADE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_writer_id ON books (writer_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_genre ON books (genre)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_published_date ON books (published_date DESC)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS books")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS writers")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
