package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/server/models"
)

// SQLRepository implements Repository over a dbx.DBTX for either dialect.
// Secrets are stored as the serialized EncryptedRecord plus its strategy tag.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

const credentialColumns = `id, owner_id, name, category, url, secret, cipher, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCredential(s scanner) (*models.Credential, error) {
	var (
		c      models.Credential
		blob   []byte
		cipher string
	)
	if err := s.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Category, &c.URL, &blob, &cipher, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, dbx.TranslateError(err)
	}

	strategy, err := cryptox.ParseCipherStrategy(cipher)
	if err != nil {
		return nil, fmt.Errorf("credential %d: %w", c.ID, err)
	}
	c.Secret, err = cryptox.ParseRecord(blob, strategy)
	if err != nil {
		return nil, fmt.Errorf("credential %d: %w", c.ID, err)
	}
	return &c, nil
}

func (r *SQLRepository) Add(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	blob, err := c.Secret.Serialize()
	if err != nil {
		return nil, err
	}

	query := r.dialect.Rebind(
		`INSERT INTO credentials (owner_id, name, category, url, secret, cipher, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`)

	now := time.Now().UTC()
	err = r.db.QueryRowContext(ctx, query,
		c.OwnerID, c.Name, string(c.Category), c.URL, blob, string(c.Secret.Strategy), now, now).Scan(&c.ID)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}

	c.CreatedAt, c.UpdatedAt = now, now
	return c, nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Credential, error) {
	query := r.dialect.Rebind(`SELECT ` + credentialColumns + ` FROM credentials WHERE id = ?`)
	return scanCredential(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLRepository) Update(ctx context.Context, c *models.Credential) error {
	blob, err := c.Secret.Serialize()
	if err != nil {
		return err
	}

	query := r.dialect.Rebind(
		`UPDATE credentials
		 SET name = ?, category = ?, url = ?, secret = ?, cipher = ?, updated_at = ?
		 WHERE id = ?`)

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		c.Name, string(c.Category), c.URL, blob, string(c.Secret.Strategy), now, c.ID)
	if err != nil {
		return dbx.TranslateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected error: %w", common.ErrorStorage, err)
	}
	if n == 0 {
		return fmt.Errorf("credential %d: %w", c.ID, common.ErrorNotFound)
	}

	c.UpdatedAt = now
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	query := r.dialect.Rebind(`DELETE FROM credentials WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context, ownerID int64) ([]*models.Credential, error) {
	query := r.dialect.Rebind(`SELECT ` + credentialColumns + ` FROM credentials WHERE owner_id = ? ORDER BY id`)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	defer rows.Close()

	result := make([]*models.Credential, 0)
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.TranslateError(err)
	}
	return result, nil
}

func (r *SQLRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	query := r.dialect.Rebind(`DELETE FROM credentials WHERE owner_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}
