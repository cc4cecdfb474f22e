package keystore

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// MemoryKeyStore keeps keys in memguard enclaves, encrypted at rest in
// process memory. Keys are lost when the process exits.
type MemoryKeyStore struct {
	mu   sync.RWMutex
	keys map[int64]*memguard.Enclave
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[int64]*memguard.Enclave)}
}

func (s *MemoryKeyStore) StoreKey(ctx context.Context, ownerID int64, key []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	// NewEnclave wipes its argument; the caller keeps its own copy.
	enclave := memguard.NewEnclave(bytes.Clone(key))

	s.mu.Lock()
	s.keys[ownerID] = enclave
	s.mu.Unlock()
	return nil
}

func (s *MemoryKeyStore) GetKey(ctx context.Context, ownerID int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	enclave, ok := s.keys[ownerID]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(ownerID)
	}

	buf, err := enclave.Open()
	if err != nil {
		return nil, fmt.Errorf("open key enclave: %w", err)
	}
	defer buf.Destroy()

	return bytes.Clone(buf.Bytes()), nil
}

func (s *MemoryKeyStore) DeleteKey(ctx context.Context, ownerID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.keys, ownerID)
	s.mu.Unlock()
	return nil
}
