package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "pgx", want: Postgres},
		{in: "postgres", want: Postgres},
		{in: "SQLite", want: SQLite},
		{in: "sqlite3", want: SQLite},
		{in: "mysql", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT id FROM users WHERE username = ? AND id = ?`

	assert.Equal(t, `SELECT id FROM users WHERE username = $1 AND id = $2`, Postgres.Rebind(q))
	assert.Equal(t, q, SQLite.Rebind(q))
}

func TestGooseDialect(t *testing.T) {
	assert.Equal(t, "pgx", Postgres.GooseDialect())
	assert.Equal(t, "sqlite3", SQLite.GooseDialect())
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db, err := Open(context.Background(), SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE u (name TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO u (name) VALUES ('alice')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO u (name) VALUES ('alice')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestOpen_SQLiteEnablesForeignKeys(t *testing.T) {
	db, err := Open(context.Background(), SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, TranslateError(nil))

	assert.Equal(t, common.ErrorNotFound, TranslateError(fmt.Errorf("scan: %w", sql.ErrNoRows)))

	dup := &pgconn.PgError{Code: "23505"}
	err := TranslateError(dup)
	assert.ErrorIs(t, err, common.ErrorConflict)
	assert.ErrorIs(t, err, dup)

	down := errors.New("db down")
	err = TranslateError(down)
	assert.ErrorIs(t, err, common.ErrorStorage)
	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "db error: db down")
}
