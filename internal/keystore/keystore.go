// Package keystore holds per-owner vault keys. A store only keeps keys it is
// given; generating them is the caller's job.
package keystore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
)

// KeyStore maps an owner id to that owner's vault key.
//
// GetKey returns common.ErrorNotFound when the owner has no key. DeleteKey
// succeeds when the key is already gone.
type KeyStore interface {
	StoreKey(ctx context.Context, ownerID int64, key []byte) error
	GetKey(ctx context.Context, ownerID int64) ([]byte, error)
	DeleteKey(ctx context.Context, ownerID int64) error
}

func checkKey(key []byte) error {
	if len(key) != cryptox.KeySize {
		return fmt.Errorf("%w: vault key must be %d bytes, got %d", common.ErrorInvalidKey, cryptox.KeySize, len(key))
	}
	return nil
}

func notFound(ownerID int64) error {
	return fmt.Errorf("vault key for owner %d: %w", ownerID, common.ErrorNotFound)
}
