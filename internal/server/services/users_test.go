package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/keystore"
	"github.com/dmitrijs2005/credvault/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKeyStore struct {
	keystore.KeyStore
	err error
}

func (f failingKeyStore) StoreKey(ctx context.Context, ownerID int64, key []byte) error {
	return f.err
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.users.Register(ctx, "alice", "alice@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.NotEmpty(t, u.Salt)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotContains(t, string(u.PasswordHash), strongPassword)

	key, err := f.keys.GetKey(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	token, err := f.users.Login(ctx, "alice", strongPassword)
	require.NoError(t, err)

	id, err := auth.GetUserIDFromToken(token, []byte(f.cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestUserService_VaultKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.register(t, "alice")
	b := f.register(t, "bob")

	ka, err := f.keys.GetKey(ctx, a)
	require.NoError(t, err)
	kb, err := f.keys.GetKey(ctx, b)
	require.NoError(t, err)
	assert.NotEqual(t, ka, kb)
}

func TestUserService_RegisterErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice")

	_, err := f.users.Register(ctx, "alice", "other@example.com", strongPassword)
	assert.ErrorIs(t, err, common.ErrorConflict)

	_, err = f.users.Register(ctx, "a", "a@example.com", strongPassword)
	assert.ErrorIs(t, err, common.ErrorInvalidInput)

	_, err = f.users.Register(ctx, "carol", "not-an-email", strongPassword)
	assert.ErrorIs(t, err, common.ErrorInvalidInput)

	_, err = f.users.Register(ctx, "carol", "carol@example.com", "alllowercase1!")
	var weak *common.WeakSecretError
	require.True(t, errors.As(err, &weak))
	assert.Equal(t, "uppercase", weak.Rule)
}

func TestUserService_RegisterRollsBackWhenKeyStoreFails(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("keyring locked")
	f := newFixtureWithKeys(t, failingKeyStore{KeyStore: keystore.NewMemoryKeyStore(), err: boom})

	_, err := f.users.Register(ctx, "alice", "alice@example.com", strongPassword)
	assert.ErrorIs(t, err, boom)

	_, err = f.manager.Users(f.db).FindByUsername(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice")

	tests := []struct {
		name, user, password string
	}{
		{"wrong password", "alice", "Wr0ng!Password"},
		{"unknown user", "mallory", strongPassword},
		{"empty password", "alice", ""},
		{"unknown user empty password", "mallory", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := f.users.Login(ctx, tt.user, tt.password)
			assert.ErrorIs(t, err, common.ErrorUnauthorized)
			assert.Empty(t, token)
		})
	}
}

func TestUserService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	_, err := f.credentials.Create(ctx, alice, input("a", strongPassword))
	require.NoError(t, err)
	bobs, err := f.credentials.Create(ctx, bob, input("b", strongPassword))
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteAccount(ctx, alice))

	_, err = f.keys.GetKey(ctx, alice)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	left, err := f.manager.Credentials(f.db).List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, left)

	_, err = f.credentials.List(ctx, alice)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = f.users.Login(ctx, "alice", strongPassword)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	got, err := f.credentials.Get(ctx, bob, bobs.ID)
	require.NoError(t, err)
	assert.Equal(t, strongPassword, got.Secret)

	assert.ErrorIs(t, f.users.DeleteAccount(ctx, alice), common.ErrorNotFound)
}
