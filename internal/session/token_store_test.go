package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileTokenStore(path)

	now := time.Now()
	require.NoError(t, store.Save(
		Token{Value: "access-1", ExpiresAt: now.Add(time.Hour)},
		Token{Value: "refresh-1", ExpiresAt: now.Add(24 * time.Hour)},
	))

	access, ok := store.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "access-1", access)

	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "refresh-1", refresh)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileTokenStoreExpiredTokenReadsAsAbsent(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "tokens.json"))

	require.NoError(t, store.Save(
		Token{Value: "access-1", ExpiresAt: time.Now().Add(-time.Minute)},
		Token{Value: "refresh-1", ExpiresAt: time.Now().Add(time.Hour)},
	))

	_, ok := store.AccessToken()
	assert.False(t, ok)

	// The refresh token is still inside its window.
	_, ok = store.RefreshToken()
	assert.True(t, ok)
}

func TestFileTokenStoreMissingFile(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "missing", "tokens.json"))
	_, ok := store.AccessToken()
	assert.False(t, ok)
}

func TestFileTokenStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileTokenStore(path)

	require.NoError(t, store.Save(
		Token{Value: "access-1", ExpiresAt: time.Now().Add(time.Hour)},
		Token{Value: "refresh-1", ExpiresAt: time.Now().Add(time.Hour)},
	))
	require.NoError(t, store.Clear())

	_, ok := store.AccessToken()
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestFileTokenStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store := NewFileTokenStore(path)
	_, ok := store.AccessToken()
	assert.False(t, ok)
}
