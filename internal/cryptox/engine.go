package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/fernet/fernet-go"
	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of every vault key, whatever the strategy.
const KeySize = 32

// Encrypter is the engine contract consumed by the use-case layer.
type Encrypter interface {
	Encrypt(plaintext string, key []byte, s CipherStrategy) (EncryptedRecord, error)
	Decrypt(r EncryptedRecord, key []byte) (string, error)
}

type strategyFuncs struct {
	encrypt func(key, plaintext []byte) (EncryptedRecord, error)
	decrypt func(key []byte, r EncryptedRecord) ([]byte, error)
}

// Engine performs authenticated encryption of secrets. It holds no key
// material and is safe for concurrent use.
type Engine struct {
	strategies map[CipherStrategy]strategyFuncs
}

func NewEngine() *Engine {
	return &Engine{
		strategies: map[CipherStrategy]strategyFuncs{
			CipherAESGCM:   aeadFuncs(CipherAESGCM, newAESGCM),
			CipherChaCha20: aeadFuncs(CipherChaCha20, chacha20poly1305.New),
			CipherFernet:   {encrypt: fernetEncrypt, decrypt: fernetDecrypt},
		},
	}
}

// Encrypt seals plaintext under key with the chosen strategy. AEAD nonces are
// drawn from crypto/rand on every call.
func (e *Engine) Encrypt(plaintext string, key []byte, s CipherStrategy) (EncryptedRecord, error) {
	fns, ok := e.strategies[s]
	if !ok {
		return EncryptedRecord{}, fmt.Errorf("%w: unsupported cipher strategy %q", common.ErrorInvalidInput, s)
	}
	if len(key) != KeySize {
		return EncryptedRecord{}, fmt.Errorf("%w: need %d bytes, got %d", common.ErrorInvalidKey, KeySize, len(key))
	}
	return fns.encrypt(key, []byte(plaintext))
}

// Decrypt authenticates and opens r. Every failure, including an unknown
// strategy, is reported as ErrorDecryptionFailed.
func (e *Engine) Decrypt(r EncryptedRecord, key []byte) (string, error) {
	fns, ok := e.strategies[r.Strategy]
	if !ok {
		return "", fmt.Errorf("%w: unsupported cipher strategy %q", common.ErrorDecryptionFailed, r.Strategy)
	}
	if len(key) != KeySize {
		return "", fmt.Errorf("%w: %w", common.ErrorDecryptionFailed, common.ErrorInvalidKey)
	}

	plaintext, err := fns.decrypt(key, r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorDecryptionFailed, err)
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", common.ErrorDecryptionFailed)
	}
	return string(plaintext), nil
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func aeadFuncs(s CipherStrategy, newAEAD func(key []byte) (cipher.AEAD, error)) strategyFuncs {
	return strategyFuncs{
		encrypt: func(key, plaintext []byte) (EncryptedRecord, error) {
			aead, err := newAEAD(key)
			if err != nil {
				return EncryptedRecord{}, fmt.Errorf("create %s cipher: %w", s, err)
			}

			nonce := make([]byte, NonceSize)
			if _, err := rand.Read(nonce); err != nil {
				return EncryptedRecord{}, fmt.Errorf("generate nonce: %w", err)
			}

			sealed := aead.Seal(nil, nonce, plaintext, nil)
			split := len(sealed) - TagSize
			return EncryptedRecord{
				Strategy:   s,
				Nonce:      nonce,
				Ciphertext: sealed[:split:split],
				Tag:        sealed[split:],
			}, nil
		},
		decrypt: func(key []byte, r EncryptedRecord) ([]byte, error) {
			if len(r.Nonce) != NonceSize || len(r.Tag) != TagSize {
				return nil, fmt.Errorf("%s record has a bad nonce or tag size", s)
			}
			aead, err := newAEAD(key)
			if err != nil {
				return nil, fmt.Errorf("create %s cipher: %w", s, err)
			}

			sealed := make([]byte, 0, len(r.Ciphertext)+TagSize)
			sealed = append(sealed, r.Ciphertext...)
			sealed = append(sealed, r.Tag...)
			return aead.Open(nil, r.Nonce, sealed, nil)
		},
	}
}

func fernetKey(key []byte) *fernet.Key {
	var k fernet.Key
	copy(k[:], key)
	return &k
}

func fernetEncrypt(key, plaintext []byte) (EncryptedRecord, error) {
	tok, err := fernet.EncryptAndSign(plaintext, fernetKey(key))
	if err != nil {
		return EncryptedRecord{}, fmt.Errorf("fernet encrypt: %w", err)
	}
	return EncryptedRecord{Strategy: CipherFernet, Ciphertext: tok}, nil
}

func fernetDecrypt(key []byte, r EncryptedRecord) ([]byte, error) {
	// ttl 0 disables token expiry; vault secrets do not age out
	msg := fernet.VerifyAndDecrypt(r.Ciphertext, 0, []*fernet.Key{fernetKey(key)})
	if msg == nil {
		return nil, fmt.Errorf("fernet token verification failed")
	}
	return msg, nil
}
