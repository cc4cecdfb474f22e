package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/keystore"
	"github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Str0ng!Passw0rd"

type fixture struct {
	db      *sql.DB
	manager *repomanager.SQLRepositoryManager
	keys    keystore.KeyStore
	cfg     *config.Config

	users       *UserService
	credentials *CredentialService
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDriver = string(dbx.SQLite)
	cfg.KeyStoreBackend = config.KeyStoreMemory
	cfg.SecretKey = "test-secret"
	cfg.AccessTokenValidityDuration = time.Minute
	return cfg
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithKeys(t, keystore.NewMemoryKeyStore())
}

func newFixtureWithKeys(t *testing.T, keys keystore.KeyStore) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := repomanager.NewSQLRepositoryManager(dbx.SQLite)
	require.NoError(t, m.RunMigrations(ctx, db))

	cfg := testConfig()
	fastKDF := cryptox.PBKDF2KDF{Iterations: 1, KeyLen: cryptox.KeySize}

	return &fixture{
		db:          db,
		manager:     m,
		keys:        keys,
		cfg:         cfg,
		users:       NewUserService(db, m, keys, fastKDF, cfg),
		credentials: NewCredentialService(db, m, keys, cryptox.NewEngine(), cfg),
	}
}

func (f *fixture) register(t *testing.T, name string) int64 {
	t.Helper()
	u, err := f.users.Register(context.Background(), name, name+"@example.com", strongPassword)
	require.NoError(t, err)
	return u.ID
}

func input(name, secret string) CredentialInput {
	return CredentialInput{
		Name:     name,
		Category: "work",
		URL:      "https://example.com/login",
		Secret:   secret,
	}
}
