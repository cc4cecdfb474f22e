package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/keystore"
	"github.com/dmitrijs2005/credvault/internal/server/auth"
	"github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/dmitrijs2005/credvault/internal/server/policy"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
)

// UserService registers accounts, issues access tokens and removes accounts
// together with their vault.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	keys                        keystore.KeyStore
	kdf                         cryptox.KeyDerivation
	policy                      policy.PasswordPolicy
	secretKey                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, keys keystore.KeyStore,
	kdf cryptox.KeyDerivation, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		keys:                        keys,
		kdf:                         kdf,
		policy:                      policy.Default(),
		secretKey:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an account and gives it a fresh random vault key.
func (s *UserService) Register(ctx context.Context, userName, email, masterPassword string) (*models.User, error) {
	if err := models.ValidateUserName(userName); err != nil {
		return nil, err
	}
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := s.policy.Validate(masterPassword); err != nil {
		return nil, err
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	verifier, err := s.verifier(masterPassword, salt)
	if err != nil {
		return nil, err
	}

	user := &models.User{UserName: userName, Email: email, PasswordHash: verifier, Salt: salt}
	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	key := common.GenerateRandByteArray(cryptox.KeySize)
	defer common.WipeByteArray(key)

	if err := s.keys.StoreKey(ctx, user.ID, key); err != nil {
		// without a key the account could never hold credentials
		if derr := s.repomanager.Users(s.db).Delete(ctx, user.ID); derr != nil {
			return nil, errors.Join(fmt.Errorf("error storing vault key: %w", err), derr)
		}
		return nil, fmt.Errorf("error storing vault key: %w", err)
	}

	return user, nil
}

// Login checks the master password and returns a signed access token.
// Unknown users and wrong passwords yield the same ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, masterPassword string) (string, error) {
	user, err := s.repomanager.Users(s.db).FindByUsername(ctx, userName)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return "", fmt.Errorf("error finding user: %w", err)
	}

	if user == nil {
		// keep timing close to the known-user path
		salt, serr := cryptox.NewSalt()
		if serr == nil && masterPassword != "" {
			_, _ = s.verifier(masterPassword, salt)
		}
		return "", fmt.Errorf("%w: invalid username or password", common.ErrorUnauthorized)
	}

	if masterPassword == "" {
		return "", fmt.Errorf("%w: invalid username or password", common.ErrorUnauthorized)
	}

	verifier, err := s.verifier(masterPassword, user.Salt)
	if err != nil {
		return "", err
	}
	if subtle.ConstantTimeCompare(verifier, user.PasswordHash) != 1 {
		return "", fmt.Errorf("%w: invalid username or password", common.ErrorUnauthorized)
	}

	token, err := auth.GenerateToken(user.ID, s.secretKey, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// DeleteAccount removes the caller's credentials and account in one
// transaction, then drops the vault key.
func (s *UserService) DeleteAccount(ctx context.Context, callerID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		ok, err := users.Exists(ctx, callerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %d: %w", callerID, common.ErrorNotFound)
		}
		if err := s.repomanager.Credentials(tx).DeleteByOwner(ctx, callerID); err != nil {
			return err
		}
		return users.Delete(ctx, callerID)
	})
	if err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}

	if err := s.keys.DeleteKey(ctx, callerID); err != nil {
		return fmt.Errorf("error deleting vault key: %w", err)
	}
	return nil
}

func (s *UserService) verifier(masterPassword string, salt []byte) ([]byte, error) {
	loginKey, err := s.kdf.DeriveKey(masterPassword, salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(loginKey)

	v, err := cryptox.LoginVerifier(loginKey, salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return v, nil
}
