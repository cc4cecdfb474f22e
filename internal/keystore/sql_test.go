package keystore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) (*SQLKeyStore, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE vault_keys (
		owner_id INTEGER PRIMARY KEY,
		sealed_key BLOB NOT NULL,
		created_at DATETIME NOT NULL)`)
	require.NoError(t, err)

	s, err := NewSQLKeyStore(db, dbx.SQLite, key(0xEE))
	require.NoError(t, err)
	return s, db
}

func TestNewSQLKeyStore_KEKSize(t *testing.T) {
	_, err := NewSQLKeyStore(nil, dbx.SQLite, []byte("too short"))
	assert.ErrorIs(t, err, common.ErrorInvalidKey)
}

func TestSQLKeyStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, db := newSQLiteStore(t)

	require.NoError(t, s.StoreKey(ctx, 7, key(7)))

	var sealed []byte
	require.NoError(t, db.QueryRowContext(ctx, `SELECT sealed_key FROM vault_keys WHERE owner_id = 7`).Scan(&sealed))
	assert.NotContains(t, string(sealed), string(key(7)), "key must not be stored in the clear")

	got, err := s.GetKey(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, key(7), got)

	// storing again replaces the key
	require.NoError(t, s.StoreKey(ctx, 7, key(8)))
	got, err = s.GetKey(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, key(8), got)

	require.NoError(t, s.DeleteKey(ctx, 7))
	require.NoError(t, s.DeleteKey(ctx, 7))
	_, err = s.GetKey(ctx, 7)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLKeyStore_TamperedKeyRejected(t *testing.T) {
	ctx := context.Background()
	s, db := newSQLiteStore(t)
	require.NoError(t, s.StoreKey(ctx, 1, key(1)))

	var sealed []byte
	require.NoError(t, db.QueryRowContext(ctx, `SELECT sealed_key FROM vault_keys WHERE owner_id = 1`).Scan(&sealed))
	sealed[len(sealed)-1] ^= 0x01
	_, err := db.ExecContext(ctx, `UPDATE vault_keys SET sealed_key = ? WHERE owner_id = 1`, sealed)
	require.NoError(t, err)

	_, err = s.GetKey(ctx, 1)
	assert.ErrorIs(t, err, common.ErrorDecryptionFailed)

	_, err = db.ExecContext(ctx, `UPDATE vault_keys SET sealed_key = ? WHERE owner_id = 1`, []byte{1, 2, 3})
	require.NoError(t, err)
	_, err = s.GetKey(ctx, 1)
	assert.ErrorIs(t, err, common.ErrorMalformedRecord)
}

func TestSQLKeyStore_WrongKEK(t *testing.T) {
	ctx := context.Background()
	s, db := newSQLiteStore(t)
	require.NoError(t, s.StoreKey(ctx, 1, key(1)))

	other, err := NewSQLKeyStore(db, dbx.SQLite, key(0x11))
	require.NoError(t, err)
	_, err = other.GetKey(ctx, 1)
	assert.ErrorIs(t, err, common.ErrorDecryptionFailed)
}

func TestSQLKeyStore_DriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	s, err := NewSQLKeyStore(db, dbx.Postgres, key(0xEE))
	require.NoError(t, err)
	ctx := context.Background()
	boom := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vault_keys`)).
		WithArgs(int64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(boom)
	err = s.StoreKey(ctx, 3, key(3))
	assert.ErrorIs(t, err, common.ErrorStorage)
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT sealed_key FROM vault_keys WHERE owner_id = $1`)).
		WithArgs(int64(3)).
		WillReturnError(boom)
	_, err = s.GetKey(ctx, 3)
	assert.ErrorIs(t, err, common.ErrorStorage)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT sealed_key FROM vault_keys WHERE owner_id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"sealed_key"}))
	_, err = s.GetKey(ctx, 4)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM vault_keys WHERE owner_id = $1`)).
		WithArgs(int64(3)).
		WillReturnError(boom)
	assert.ErrorIs(t, s.DeleteKey(ctx, 3), common.ErrorStorage)

	require.NoError(t, mock.ExpectationsWereMet())
}
