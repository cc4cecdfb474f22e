// Package users stores vault accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/credvault/internal/server/models"
)

// Repository performs no authorization. Missing users are reported as
// common.ErrorNotFound and duplicate usernames as common.ErrorConflict.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, userName string) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}
