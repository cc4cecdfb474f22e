// Package services contains the vault's use cases. Every credential
// operation takes the caller's id explicitly and checks ownership here,
// never in storage.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/keystore"
	"github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/dmitrijs2005/credvault/internal/server/policy"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
)

// CredentialService creates, reads, replaces, deletes and lists a caller's
// credentials. It keeps no per-call state and is safe for concurrent use.
type CredentialService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	keys          keystore.KeyStore
	engine        cryptox.Encrypter
	policy        policy.PasswordPolicy
	defaultCipher cryptox.CipherStrategy
}

func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, keys keystore.KeyStore,
	engine cryptox.Encrypter, cfg *config.Config) *CredentialService {
	return &CredentialService{
		db:            db,
		repomanager:   m,
		keys:          keys,
		engine:        engine,
		policy:        policy.Default(),
		defaultCipher: cryptox.CipherStrategy(cfg.DefaultCipher),
	}
}

// Create encrypts in.Secret under the caller's vault key and stores it.
func (s *CredentialService) Create(ctx context.Context, callerID int64, in CredentialInput) (*CredentialOutput, error) {
	if err := requireCaller(ctx, s.repomanager.Users(s.db), callerID); err != nil {
		return nil, err
	}

	c := &models.Credential{OwnerID: callerID}
	strategy, err := s.applyInput(c, in)
	if err != nil {
		return nil, err
	}

	if err := s.seal(ctx, c, in.Secret, strategy); err != nil {
		return nil, err
	}

	c, err = s.repomanager.Credentials(s.db).Add(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error creating credential: %w", err)
	}
	return newOutput(c, in.Secret), nil
}

// Get returns the decrypted credential if the caller owns it.
func (s *CredentialService) Get(ctx context.Context, callerID, id int64) (*CredentialOutput, error) {
	c, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	key, err := s.vaultKey(ctx, callerID)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	plaintext, err := s.engine.Decrypt(c.Secret, key)
	if err != nil {
		return nil, fmt.Errorf("credential %d: %w", c.ID, err)
	}
	return newOutput(c, plaintext), nil
}

// Update replaces name, category, url and secret of an owned credential.
// The secret is re-encrypted under the current vault key, possibly with a
// different strategy.
func (s *CredentialService) Update(ctx context.Context, callerID, id int64, in CredentialInput) (*CredentialOutput, error) {
	c, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	strategy, err := s.applyInput(c, in)
	if err != nil {
		return nil, err
	}
	if err := s.seal(ctx, c, in.Secret, strategy); err != nil {
		return nil, err
	}

	if err := s.repomanager.Credentials(s.db).Update(ctx, c); err != nil {
		return nil, fmt.Errorf("error updating credential: %w", err)
	}
	return newOutput(c, in.Secret), nil
}

// Delete removes an owned credential. Deleting it again yields ErrorNotFound.
func (s *CredentialService) Delete(ctx context.Context, callerID, id int64) error {
	if _, err := s.owned(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.repomanager.Credentials(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting credential: %w", err)
	}
	return nil
}

// List decrypts all of the caller's credentials. One undecryptable entry
// fails the whole call with a *common.EntryDecryptionError naming it.
func (s *CredentialService) List(ctx context.Context, callerID int64) ([]*CredentialOutput, error) {
	if err := requireCaller(ctx, s.repomanager.Users(s.db), callerID); err != nil {
		return nil, err
	}

	key, err := s.vaultKey(ctx, callerID)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	items, err := s.repomanager.Credentials(s.db).List(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}

	out := make([]*CredentialOutput, 0, len(items))
	for _, c := range items {
		plaintext, err := s.engine.Decrypt(c.Secret, key)
		if err != nil {
			return nil, &common.EntryDecryptionError{EntryID: c.ID, Err: err}
		}
		out = append(out, newOutput(c, plaintext))
	}
	return out, nil
}

// owned loads a credential and checks it belongs to callerID.
func (s *CredentialService) owned(ctx context.Context, callerID, id int64) (*models.Credential, error) {
	c, err := s.repomanager.Credentials(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != callerID {
		return nil, fmt.Errorf("%w: access denied", common.ErrorUnauthorized)
	}
	return c, nil
}

// applyInput validates in and copies its metadata onto c.
func (s *CredentialService) applyInput(c *models.Credential, in CredentialInput) (cryptox.CipherStrategy, error) {
	if err := models.ValidateName(in.Name); err != nil {
		return "", err
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return "", err
	}
	if err := models.ValidateURL(in.URL); err != nil {
		return "", err
	}

	strategy := in.Cipher
	if strategy == "" {
		strategy = s.defaultCipher
	}
	if !strategy.Valid() {
		return "", fmt.Errorf("%w: unsupported cipher strategy %q", common.ErrorInvalidInput, strategy)
	}

	if err := s.policy.Validate(in.Secret); err != nil {
		return "", err
	}

	c.Name, c.Category, c.URL = in.Name, category, in.URL
	return strategy, nil
}

func (s *CredentialService) seal(ctx context.Context, c *models.Credential, secret string, strategy cryptox.CipherStrategy) error {
	key, err := s.vaultKey(ctx, c.OwnerID)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	rec, err := s.engine.Encrypt(secret, key, strategy)
	if err != nil {
		return fmt.Errorf("error encrypting secret: %w", err)
	}
	c.Secret = rec
	return nil
}

// vaultKey fetches the owner's key. A missing key means the account cannot
// encrypt and is reported as ErrorUnauthorized.
func (s *CredentialService) vaultKey(ctx context.Context, ownerID int64) ([]byte, error) {
	key, err := s.keys.GetKey(ctx, ownerID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: vault key unavailable", common.ErrorUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading vault key: %w", err)
	}
	return key, nil
}

type userChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

func requireCaller(ctx context.Context, users userChecker, callerID int64) error {
	ok, err := users.Exists(ctx, callerID)
	if err != nil {
		return fmt.Errorf("error checking caller: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: unknown caller", common.ErrorUnauthorized)
	}
	return nil
}
