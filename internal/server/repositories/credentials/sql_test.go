package credentials

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewSQLRepository(db, dbx.Postgres), mock, db
}

func aeadRecord() cryptox.EncryptedRecord {
	return cryptox.EncryptedRecord{
		Strategy:   cryptox.CipherAESGCM,
		Nonce:      bytes.Repeat([]byte{1}, cryptox.NonceSize),
		Tag:        bytes.Repeat([]byte{2}, cryptox.TagSize),
		Ciphertext: []byte("ct"),
	}
}

func TestAdd_Postgres(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rec := aeadRecord()
	blob, err := rec.Serialize()
	require.NoError(t, err)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+credentials\s*\(owner_id,.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*RETURNING\s+id$`).
		WithArgs(int64(1), "mail", "Work", "https://mail.example.com", blob, "AES_GCM", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

	c, err := repo.Add(context.Background(), &models.Credential{
		OwnerID: 1, Name: "mail", Category: models.CategoryWork, URL: "https://mail.example.com", Secret: rec,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_RejectsUnserializableRecord(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.Add(context.Background(), &models.Credential{
		OwnerID: 1, Name: "bad", Secret: cryptox.EncryptedRecord{Strategy: cryptox.CipherAESGCM},
	})
	assert.ErrorIs(t, err, common.ErrorMalformedRecord)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_UnknownID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+credentials\s+SET\s+name\s*=\s*\$1,.*WHERE\s+id\s*=\s*\$7$`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Credential{ID: 99, Secret: aeadRecord()})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_DriverErrors(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*owner_id,.*FROM\s+credentials\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q).WithArgs(int64(2)).WillReturnError(errors.New("connection refused"))

	_, err := repo.Get(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Get(context.Background(), 2)
	assert.ErrorIs(t, err, common.ErrorStorage)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+credentials\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+id$`).
		WithArgs(int64(1)).
		WillReturnError(errors.New("timeout"))

	_, err := repo.List(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrorStorage)
}

func TestDeleteByOwner_Error(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+credentials\s+WHERE\s+owner_id\s*=\s*\$1$`).
		WithArgs(int64(5)).
		WillReturnError(errors.New("locked"))

	assert.ErrorIs(t, repo.DeleteByOwner(context.Background(), 5), common.ErrorStorage)
}
