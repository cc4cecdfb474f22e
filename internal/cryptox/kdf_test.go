package cryptox

import (
	"bytes"
	"testing"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the suite fast; determinism does not depend on cost
func fastKDFs() map[string]KeyDerivation {
	return map[string]KeyDerivation{
		"argon2id": Argon2idKDF{Time: 1, Memory: 1024, Threads: 1, KeyLen: KeySize},
		"pbkdf2":   PBKDF2KDF{Iterations: 1000, KeyLen: KeySize},
	}
}

func TestKDF_Deterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, SaltSize)
	for name, kdf := range fastKDFs() {
		t.Run(name, func(t *testing.T) {
			k1, err := kdf.DeriveKey("Tr0ub4dor&3", salt)
			require.NoError(t, err)
			k2, err := kdf.DeriveKey("Tr0ub4dor&3", salt)
			require.NoError(t, err)

			assert.Len(t, k1, KeySize)
			assert.Equal(t, k1, k2)
		})
	}
}

func TestKDF_SaltAndPasswordSensitivity(t *testing.T) {
	s1 := bytes.Repeat([]byte{1}, SaltSize)
	s2 := bytes.Repeat([]byte{2}, SaltSize)
	for name, kdf := range fastKDFs() {
		t.Run(name, func(t *testing.T) {
			a, _ := kdf.DeriveKey("password", s1)
			b, _ := kdf.DeriveKey("password", s2)
			c, _ := kdf.DeriveKey("Password", s1)
			assert.NotEqual(t, a, b)
			assert.NotEqual(t, a, c)
		})
	}
}

func TestKDF_RejectsBadInput(t *testing.T) {
	for name, kdf := range fastKDFs() {
		_, err := kdf.DeriveKey("password", []byte("short"))
		assert.ErrorIs(t, err, common.ErrorInvalidInput, name)

		_, err = kdf.DeriveKey("", bytes.Repeat([]byte{1}, SaltSize))
		assert.ErrorIs(t, err, common.ErrorInvalidInput, name)
	}
}

func TestNewKDF(t *testing.T) {
	k, err := NewKDF("")
	require.NoError(t, err)
	assert.Equal(t, DefaultArgon2id(), k)

	k, err = NewKDF("pbkdf2")
	require.NoError(t, err)
	assert.Equal(t, DefaultPBKDF2(), k)

	_, err = NewKDF("md5")
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)
	assert.Len(t, a, SaltSize)
	assert.NotEqual(t, a, b)
}

func TestLoginVerifier(t *testing.T) {
	key := testKey(9)
	salt := bytes.Repeat([]byte{3}, SaltSize)

	v1, err := LoginVerifier(key, salt)
	require.NoError(t, err)
	v2, err := LoginVerifier(key, salt)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.NotEqual(t, key, v1)

	other, err := LoginVerifier(testKey(8), salt)
	require.NoError(t, err)
	assert.NotEqual(t, v1, other)
}
