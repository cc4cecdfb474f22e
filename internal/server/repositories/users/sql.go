package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/server/models"
)

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx)
// for either supported dialect.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

const userColumns = `id, username, email, password_hash, salt, created_at`

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := r.dialect.Rebind(
		`INSERT INTO users (username, email, password_hash, salt, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`)

	createdAt := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.PasswordHash, user.Salt, createdAt).Scan(&user.ID)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}

	user.CreatedAt = createdAt
	return user, nil
}

func (r *SQLRepository) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), arg).Scan(
		&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.Salt, &user.CreatedAt)
	if err != nil {
		return nil, dbx.TranslateError(err)
	}
	return user, nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLRepository) FindByUsername(ctx context.Context, userName string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, userName)
}

func (r *SQLRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := r.dialect.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, dbx.TranslateError(err)
	}
	return exists, nil
}

// Delete removes the user; credentials go with it through the foreign key
// cascade. Deleting an unknown id is not an error.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	query := r.dialect.Rebind(`DELETE FROM users WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return dbx.TranslateError(err)
	}
	return nil
}
