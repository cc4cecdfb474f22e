package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/dmitrijs2005/credvault/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of salts produced by NewSalt and the minimum
	// accepted by the derivations below.
	SaltSize = 16

	loginVerifierInfo = "credvault login verifier"
)

// KeyDerivation turns a password and salt into key material. Implementations
// must be deterministic for equal inputs.
type KeyDerivation interface {
	DeriveKey(secret string, salt []byte) ([]byte, error)
}

// Argon2idKDF derives keys with Argon2id.
type Argon2idKDF struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2id returns the parameters used for master passwords.
func DefaultArgon2id() Argon2idKDF {
	return Argon2idKDF{Time: 2, Memory: 64 * 1024, Threads: 4, KeyLen: KeySize}
}

func (k Argon2idKDF) DeriveKey(secret string, salt []byte) ([]byte, error) {
	if err := checkInput(secret, salt); err != nil {
		return nil, err
	}
	return argon2.IDKey([]byte(secret), salt, k.Time, k.Memory, k.Threads, k.KeyLen), nil
}

// PBKDF2KDF derives keys with PBKDF2-HMAC-SHA256.
type PBKDF2KDF struct {
	Iterations int
	KeyLen     int
}

func DefaultPBKDF2() PBKDF2KDF {
	return PBKDF2KDF{Iterations: 600_000, KeyLen: KeySize}
}

func (k PBKDF2KDF) DeriveKey(secret string, salt []byte) ([]byte, error) {
	if err := checkInput(secret, salt); err != nil {
		return nil, err
	}
	if k.Iterations < 1 {
		return nil, fmt.Errorf("%w: pbkdf2 iterations must be positive", common.ErrorInvalidInput)
	}
	return pbkdf2.Key([]byte(secret), salt, k.Iterations, k.KeyLen, sha256.New), nil
}

// NewKDF picks a derivation by name ("argon2id" or "pbkdf2").
func NewKDF(name string) (KeyDerivation, error) {
	switch name {
	case "", "argon2id":
		return DefaultArgon2id(), nil
	case "pbkdf2":
		return DefaultPBKDF2(), nil
	default:
		return nil, fmt.Errorf("%w: unknown kdf %q", common.ErrorInvalidInput, name)
	}
}

// NewSalt returns SaltSize bytes from crypto/rand.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// LoginVerifier expands a derived login key into the value stored for
// password checks, so the stored verifier is never usable as key material.
func LoginVerifier(loginKey, salt []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, loginKey, salt, []byte(loginVerifierInfo))
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("expand login verifier: %w", err)
	}
	return out, nil
}

func checkInput(secret string, salt []byte) error {
	if secret == "" {
		return fmt.Errorf("%w: empty secret", common.ErrorInvalidInput)
	}
	if len(salt) < SaltSize {
		return fmt.Errorf("%w: salt must be at least %d bytes", common.ErrorInvalidInput, SaltSize)
	}
	return nil
}
