package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	token string
	err   error
}

func (f fakeStore) AccessToken(context.Context) (string, error) { return f.token, f.err }

func TestStoredTokenProvider(t *testing.T) {
	t.Run("token present", func(t *testing.T) {
		p := &StoredTokenProvider{Store: fakeStore{token: "abc"}}
		header, err := p.Authorization(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", header)
		assert.True(t, IsUserToken(header))
	})

	t.Run("logged out", func(t *testing.T) {
		p := &StoredTokenProvider{Store: fakeStore{}}
		_, err := p.Authorization(context.Background())
		assert.ErrorIs(t, err, ErrNoCredentials)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := (&StoredTokenProvider{}).Authorization(context.Background())
		assert.ErrorIs(t, err, ErrNoCredentials)
	})
}

func TestKeyProvider(t *testing.T) {
	header, err := (&KeyProvider{AccessKey: " key1 "}).Authorization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Client-ID key1", header)
	assert.False(t, IsUserToken(header))

	_, err = (&KeyProvider{}).Authorization(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestEnvProvider(t *testing.T) {
	t.Setenv(AccessKeyEnv, "envkey")
	header, err := (&EnvProvider{}).Authorization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Client-ID envkey", header)

	t.Setenv(AccessKeyEnv, "")
	_, err = (&EnvProvider{}).Authorization(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.Contains(t, err.Error(), AccessKeyEnv)
}

func TestChain(t *testing.T) {
	t.Setenv(AccessKeyEnv, "")

	t.Run("user token wins", func(t *testing.T) {
		header, err := Default(fakeStore{token: "tok"}, "key").Authorization(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok", header)
	})

	t.Run("falls back to access key", func(t *testing.T) {
		header, err := Default(fakeStore{}, "key").Authorization(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Client-ID key", header)
	})

	t.Run("falls back to env", func(t *testing.T) {
		t.Setenv(AccessKeyEnv, "fromenv")
		header, err := Default(fakeStore{}, "").Authorization(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Client-ID fromenv", header)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := Default(fakeStore{}, "").Authorization(context.Background())
		assert.ErrorIs(t, err, ErrNoCredentials)
		assert.Contains(t, err.Error(), "walleria login")
	})

	t.Run("store failure aborts", func(t *testing.T) {
		boom := errors.New("database is locked")
		_, err := Default(fakeStore{err: boom}, "key").Authorization(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}

func TestCredentialProvider_Interface(t *testing.T) {
	var _ CredentialProvider = &StoredTokenProvider{}
	var _ CredentialProvider = &KeyProvider{}
	var _ CredentialProvider = &EnvProvider{}
	var _ CredentialProvider = Chain{}
}
