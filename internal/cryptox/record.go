// Package cryptox holds the vault's cryptographic building blocks: the
// EncryptedRecord value and its wire format, the strategy-dispatching
// encryption engine, and password-based key derivation.
package cryptox

import (
	"bytes"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
)

// CipherStrategy tags the algorithm that produced an EncryptedRecord.
// The set is closed: adding a cipher means adding a constant here and an
// entry in the engine's strategy table.
type CipherStrategy string

const (
	CipherAESGCM   CipherStrategy = "AES_GCM"
	CipherChaCha20 CipherStrategy = "CHACHA20_POLY1305"
	CipherFernet   CipherStrategy = "FERNET"
)

const (
	// NonceSize and TagSize are shared by every AEAD strategy.
	NonceSize = 12
	TagSize   = 16

	aeadPrefixSize = NonceSize + TagSize
)

// Strategies lists every supported strategy in a stable order.
func Strategies() []CipherStrategy {
	return []CipherStrategy{CipherAESGCM, CipherChaCha20, CipherFernet}
}

// IsAEAD reports whether records of this strategy carry a separate nonce and tag.
func (s CipherStrategy) IsAEAD() bool {
	return s == CipherAESGCM || s == CipherChaCha20
}

func (s CipherStrategy) Valid() bool {
	for _, v := range Strategies() {
		if v == s {
			return true
		}
	}
	return false
}

// ParseCipherStrategy maps a stored tag onto a strategy. Unknown tags are
// malformed records.
func ParseCipherStrategy(tag string) (CipherStrategy, error) {
	s := CipherStrategy(tag)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown cipher strategy %q", common.ErrorMalformedRecord, tag)
	}
	return s, nil
}

// EncryptedRecord is an immutable ciphertext plus what is needed to decrypt it.
// Nonce and Tag are set only for AEAD strategies.
type EncryptedRecord struct {
	Ciphertext []byte
	Strategy   CipherStrategy
	Nonce      []byte
	Tag        []byte
}

// Serialize returns the storage form of the record:
// nonce(12) || tag(16) || ciphertext for AEAD strategies, the raw token otherwise.
func (r EncryptedRecord) Serialize() ([]byte, error) {
	switch {
	case r.Strategy.IsAEAD():
		if len(r.Nonce) != NonceSize || len(r.Tag) != TagSize {
			return nil, fmt.Errorf("%w: %s record needs a %d-byte nonce and %d-byte tag",
				common.ErrorMalformedRecord, r.Strategy, NonceSize, TagSize)
		}
		out := make([]byte, 0, aeadPrefixSize+len(r.Ciphertext))
		out = append(out, r.Nonce...)
		out = append(out, r.Tag...)
		return append(out, r.Ciphertext...), nil
	case r.Strategy.Valid():
		if r.Nonce != nil || r.Tag != nil {
			return nil, fmt.Errorf("%w: %s record must not carry a nonce or tag", common.ErrorMalformedRecord, r.Strategy)
		}
		return bytes.Clone(r.Ciphertext), nil
	default:
		return nil, fmt.Errorf("%w: unknown cipher strategy %q", common.ErrorMalformedRecord, r.Strategy)
	}
}

// ParseRecord rebuilds a record from its storage form and strategy tag.
// AEAD blobs shorter than the nonce+tag prefix are rejected.
func ParseRecord(data []byte, s CipherStrategy) (EncryptedRecord, error) {
	switch {
	case s.IsAEAD():
		if len(data) < aeadPrefixSize {
			return EncryptedRecord{}, fmt.Errorf("%w: %s blob is %d bytes, need at least %d",
				common.ErrorMalformedRecord, s, len(data), aeadPrefixSize)
		}
		return EncryptedRecord{
			Strategy:   s,
			Nonce:      bytes.Clone(data[:NonceSize]),
			Tag:        bytes.Clone(data[NonceSize:aeadPrefixSize]),
			Ciphertext: bytes.Clone(data[aeadPrefixSize:]),
		}, nil
	case s.Valid():
		if len(data) == 0 {
			return EncryptedRecord{}, fmt.Errorf("%w: empty %s token", common.ErrorMalformedRecord, s)
		}
		return EncryptedRecord{Strategy: s, Ciphertext: bytes.Clone(data)}, nil
	default:
		return EncryptedRecord{}, fmt.Errorf("%w: unknown cipher strategy %q", common.ErrorMalformedRecord, s)
	}
}

// Equal reports whether two records hold identical bytes and strategy.
func (r EncryptedRecord) Equal(o EncryptedRecord) bool {
	return r.Strategy == o.Strategy &&
		bytes.Equal(r.Ciphertext, o.Ciphertext) &&
		bytes.Equal(r.Nonce, o.Nonce) &&
		bytes.Equal(r.Tag, o.Tag)
}
