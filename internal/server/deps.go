package server

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/filex"
	"github.com/dmitrijs2005/credvault/internal/keystore"
	"github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/credvault/internal/server/services"
)

// Deps is the wired storage and service graph shared by the server and
// vaultctl.
type Deps struct {
	DB          *sql.DB
	Manager     repomanager.RepositoryManager
	Keys        keystore.KeyStore
	Users       *services.UserService
	Credentials *services.CredentialService
	Secrets     *services.SecretService
	Snapshots   *services.SnapshotService
}

// OpenDeps opens the database, applies migrations and builds the services.
func OpenDeps(ctx context.Context, cfg *config.Config) (*Deps, error) {
	dialect, err := dbx.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	if path := sqliteFilePath(dialect, cfg.DatabaseDSN); path != "" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	db, err := dbx.Open(ctx, dialect, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewSQLRepositoryManager(dialect)
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	keys, err := NewKeyStore(cfg, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("key store init error: %w", err)
	}

	kdf, err := cryptox.NewKDF(cfg.KDF)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Deps{
		DB:          db,
		Manager:     m,
		Keys:        keys,
		Users:       services.NewUserService(db, m, keys, kdf, cfg),
		Credentials: services.NewCredentialService(db, m, keys, cryptox.NewEngine(), cfg),
		Secrets:     services.NewSecretService(),
		Snapshots:   services.NewSnapshotService(db, m, cfg),
	}, nil
}

func (d *Deps) Close() error {
	return d.DB.Close()
}

// NewKeyStore builds the configured vault key store.
func NewKeyStore(cfg *config.Config, db dbx.DBTX, dialect dbx.Dialect) (keystore.KeyStore, error) {
	switch cfg.KeyStoreBackend {
	case config.KeyStoreMemory:
		return keystore.NewMemoryKeyStore(), nil
	case config.KeyStoreSQL:
		kek, err := cfg.KEK()
		if err != nil {
			return nil, err
		}
		ks, err := keystore.NewSQLKeyStore(db, dialect, kek)
		if err != nil {
			return nil, err
		}
		return ks, nil
	case config.KeyStoreKeyring:
		ring, err := keystore.OpenKeyring(keystore.KeyringConfig{
			ServiceName:  cfg.KeyringServiceName,
			Backend:      cfg.KeyringBackend,
			FileDir:      cfg.KeyringFileDir,
			FilePassword: cfg.KeyringFilePassword,
		})
		if err != nil {
			return nil, err
		}
		return keystore.NewKeyringKeyStore(ring), nil
	}
	return nil, fmt.Errorf("unknown key store backend %q", cfg.KeyStoreBackend)
}

// sqliteFilePath returns the on-disk path of a SQLite DSN, or "" for
// in-memory databases and other dialects.
func sqliteFilePath(d dbx.Dialect, dsn string) string {
	if d != dbx.SQLite {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	return path
}
