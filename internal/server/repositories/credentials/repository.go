// Package credentials stores encrypted credential records. It performs no
// authorization; ownership is checked by the service layer.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/credvault/internal/server/models"
)

type Repository interface {
	// Add persists a new credential and assigns its ID.
	Add(ctx context.Context, c *models.Credential) (*models.Credential, error)
	// Get returns common.ErrorNotFound for unknown ids.
	Get(ctx context.Context, id int64) (*models.Credential, error)
	// Update replaces name, category, url and secret in one statement.
	// Unknown ids yield common.ErrorNotFound.
	Update(ctx context.Context, c *models.Credential) error
	// Delete is idempotent.
	Delete(ctx context.Context, id int64) error
	// List returns the owner's credentials ordered by id.
	List(ctx context.Context, ownerID int64) ([]*models.Credential, error)
	DeleteByOwner(ctx context.Context, ownerID int64) error
}
