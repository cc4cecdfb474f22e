package cryptox

import (
	"bytes"
	"testing"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCipherStrategy(t *testing.T) {
	for _, s := range Strategies() {
		got, err := ParseCipherStrategy(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseCipherStrategy("ROT13")
	assert.ErrorIs(t, err, common.ErrorMalformedRecord)
}

func TestSerialize_AEADLayout(t *testing.T) {
	r := EncryptedRecord{
		Strategy:   CipherAESGCM,
		Nonce:      bytes.Repeat([]byte{1}, NonceSize),
		Tag:        bytes.Repeat([]byte{2}, TagSize),
		Ciphertext: []byte{3, 3, 3},
	}

	blob, err := r.Serialize()
	require.NoError(t, err)
	require.Len(t, blob, NonceSize+TagSize+3)
	assert.Equal(t, r.Nonce, blob[:NonceSize])
	assert.Equal(t, r.Tag, blob[NonceSize:NonceSize+TagSize])
	assert.Equal(t, r.Ciphertext, blob[NonceSize+TagSize:])

	back, err := ParseRecord(blob, CipherAESGCM)
	require.NoError(t, err)
	assert.True(t, r.Equal(back))
}

func TestSerialize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		rec  EncryptedRecord
	}{
		{"short nonce", EncryptedRecord{Strategy: CipherChaCha20, Nonce: []byte{1}, Tag: make([]byte, TagSize)}},
		{"missing tag", EncryptedRecord{Strategy: CipherAESGCM, Nonce: make([]byte, NonceSize)}},
		{"fernet with nonce", EncryptedRecord{Strategy: CipherFernet, Nonce: make([]byte, NonceSize), Ciphertext: []byte("tok")}},
		{"unknown strategy", EncryptedRecord{Strategy: "DES", Ciphertext: []byte("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rec.Serialize()
			assert.ErrorIs(t, err, common.ErrorMalformedRecord)
		})
	}
}

func TestParseRecord_ShortBlob(t *testing.T) {
	for _, s := range []CipherStrategy{CipherAESGCM, CipherChaCha20} {
		_, err := ParseRecord(make([]byte, NonceSize+TagSize-1), s)
		assert.ErrorIs(t, err, common.ErrorMalformedRecord, s)
	}

	// an empty plaintext still yields a full prefix
	r, err := ParseRecord(make([]byte, NonceSize+TagSize), CipherAESGCM)
	require.NoError(t, err)
	assert.Empty(t, r.Ciphertext)

	_, err = ParseRecord(nil, CipherFernet)
	assert.ErrorIs(t, err, common.ErrorMalformedRecord)
}

func TestParseRecord_CopiesInput(t *testing.T) {
	blob := bytes.Repeat([]byte{9}, NonceSize+TagSize+4)
	r, err := ParseRecord(blob, CipherChaCha20)
	require.NoError(t, err)

	blob[0], blob[len(blob)-1] = 0, 0
	assert.Equal(t, byte(9), r.Nonce[0])
	assert.Equal(t, byte(9), r.Ciphertext[3])
}
