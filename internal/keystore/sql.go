package keystore

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	kekSize         = 32
	secretboxNonce  = 24
	sealedKeyMinLen = secretboxNonce + secretbox.Overhead
)

// SQLKeyStore persists vault keys in the vault_keys table, each sealed with
// NaCl secretbox under a key-encryption key held only in configuration.
type SQLKeyStore struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	kek     [kekSize]byte
}

func NewSQLKeyStore(db dbx.DBTX, dialect dbx.Dialect, kek []byte) (*SQLKeyStore, error) {
	if len(kek) != kekSize {
		return nil, fmt.Errorf("%w: key-encryption key must be %d bytes, got %d", common.ErrorInvalidKey, kekSize, len(kek))
	}
	s := &SQLKeyStore{db: db, dialect: dialect}
	copy(s.kek[:], kek)
	return s, nil
}

func (s *SQLKeyStore) seal(key []byte) ([]byte, error) {
	var nonce [secretboxNonce]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], key, &nonce, &s.kek), nil
}

func (s *SQLKeyStore) open(ownerID int64, sealed []byte) ([]byte, error) {
	if len(sealed) < sealedKeyMinLen {
		return nil, fmt.Errorf("%w: sealed key for owner %d is truncated", common.ErrorMalformedRecord, ownerID)
	}
	var nonce [secretboxNonce]byte
	copy(nonce[:], sealed[:secretboxNonce])

	key, ok := secretbox.Open(nil, sealed[secretboxNonce:], &nonce, &s.kek)
	if !ok {
		return nil, fmt.Errorf("%w: sealed key for owner %d failed authentication", common.ErrorDecryptionFailed, ownerID)
	}
	return key, nil
}

// StoreKey inserts or replaces the owner's key.
func (s *SQLKeyStore) StoreKey(ctx context.Context, ownerID int64, key []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	sealed, err := s.seal(key)
	if err != nil {
		return err
	}

	query := s.dialect.Rebind(`INSERT INTO vault_keys (owner_id, sealed_key, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (owner_id) DO UPDATE SET sealed_key = excluded.sealed_key`)
	if _, err := s.db.ExecContext(ctx, query, ownerID, sealed, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: store vault key: %w", common.ErrorStorage, err)
	}
	return nil
}

func (s *SQLKeyStore) GetKey(ctx context.Context, ownerID int64) ([]byte, error) {
	query := s.dialect.Rebind(`SELECT sealed_key FROM vault_keys WHERE owner_id = ?`)

	var sealed []byte
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load vault key: %w", common.ErrorStorage, err)
	}
	return s.open(ownerID, sealed)
}

func (s *SQLKeyStore) DeleteKey(ctx context.Context, ownerID int64) error {
	query := s.dialect.Rebind(`DELETE FROM vault_keys WHERE owner_id = ?`)
	if _, err := s.db.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("%w: delete vault key: %w", common.ErrorStorage, err)
	}
	return nil
}
