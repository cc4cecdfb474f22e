// Package migrations embeds the goose SQL migrations for every supported
// dialect and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

func dialectDir(d dbx.Dialect) (string, goose.Dialect) {
	if d == dbx.SQLite {
		return SQLiteDir, goose.DialectSQLite3
	}
	return PostgresDir, goose.DialectPostgres
}

// Up applies every pending migration for the dialect and returns how many ran.
func Up(ctx context.Context, db *sql.DB, d dbx.Dialect) (int, error) {
	dir, gd := dialectDir(d)
	fsys, err := fs.Sub(Migrations, dir)
	if err != nil {
		return 0, fmt.Errorf("migrations dir %s: %w", dir, err)
	}

	p, err := goose.NewProvider(gd, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("apply migrations: %w", err)
	}
	return len(results), nil
}
