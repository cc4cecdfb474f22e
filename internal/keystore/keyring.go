package keystore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/99designs/keyring"
	"github.com/dmitrijs2005/credvault/internal/filex"
)

const keyringItemPrefix = "vault-key:"

// KeyringConfig selects and configures an OS secret store.
type KeyringConfig struct {
	ServiceName string
	// Backend restricts the store to one backend ("file", "secret-service",
	// "keychain", "wincred", ...). Empty lets keyring pick.
	Backend string
	// FileDir and FilePassword are used by the encrypted file backend.
	FileDir      string
	FilePassword string
}

// OpenKeyring opens the configured keyring.
func OpenKeyring(cfg KeyringConfig) (keyring.Keyring, error) {
	kc := keyring.Config{
		ServiceName:      cfg.ServiceName,
		FilePasswordFunc: keyring.FixedStringPrompt(cfg.FilePassword),
	}
	if cfg.Backend != "" {
		kc.AllowedBackends = []keyring.BackendType{keyring.BackendType(cfg.Backend)}
	}
	if cfg.FileDir != "" {
		dir, err := filex.EnsureDir(cfg.FileDir)
		if err != nil {
			return nil, err
		}
		kc.FileDir = dir
	}

	ring, err := keyring.Open(kc)
	if err != nil {
		return nil, fmt.Errorf("open keyring %q: %w", cfg.ServiceName, err)
	}
	return ring, nil
}

// KeyringKeyStore keeps vault keys in an OS secret store.
type KeyringKeyStore struct {
	ring keyring.Keyring
}

func NewKeyringKeyStore(ring keyring.Keyring) *KeyringKeyStore {
	return &KeyringKeyStore{ring: ring}
}

func itemKey(ownerID int64) string {
	return keyringItemPrefix + strconv.FormatInt(ownerID, 10)
}

func (s *KeyringKeyStore) StoreKey(ctx context.Context, ownerID int64, key []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	err := s.ring.Set(keyring.Item{
		Key:   itemKey(ownerID),
		Data:  bytes.Clone(key),
		Label: fmt.Sprintf("credvault vault key (owner %d)", ownerID),
	})
	if err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

func (s *KeyringKeyStore) GetKey(ctx context.Context, ownerID int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	item, err := s.ring.Get(itemKey(ownerID))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, notFound(ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("keyring get: %w", err)
	}
	if err := checkKey(item.Data); err != nil {
		return nil, err
	}
	return bytes.Clone(item.Data), nil
}

func (s *KeyringKeyStore) DeleteKey(ctx context.Context, ownerID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.ring.Remove(itemKey(ownerID))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("keyring remove: %w", err)
	}
	return nil
}
