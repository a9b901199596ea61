package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	cred := &Credential{
		Service:      "gmail",
		Account:      "default",
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		Scopes:       []string{"https://mail.google.com/"},
		Expiry:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(cred))

	loaded, err := store.Load("gmail", "default")
	require.NoError(t, err)
	assert.Equal(t, cred, loaded)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("drive", "default")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	first := &Credential{Service: "drive", Account: "work", AccessToken: "old", RefreshToken: "r1"}
	require.NoError(t, store.Save(first))

	second := &Credential{Service: "drive", Account: "work", AccessToken: "new", RefreshToken: "r2"}
	require.NoError(t, store.Save(second))

	loaded, err := store.Load("drive", "work")
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.AccessToken)
	assert.Equal(t, "r2", loaded.RefreshToken)

	// No temp files left behind.
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	cred := &Credential{Service: "sheets", Account: "default", AccessToken: "tok"}
	require.NoError(t, store.Save(cred))
	require.NoError(t, store.Delete("sheets", "default"))

	_, err = store.Load("sheets", "default")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Delete("sheets", "default")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreFileMode(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	cred := &Credential{Service: "calendar", Account: "default", AccessToken: "tok"}
	require.NoError(t, store.Save(cred))

	info, err := os.Stat(filepath.Join(store.Dir(), "calendar-default.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreRejectsUnsafeNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name    string
		service string
		account string
	}{
		{"path traversal in service", "../etc", "default"},
		{"slash in account", "gmail", "a/b"},
		{"empty service", "", "default"},
		{"empty account", "gmail", ""},
		{"space in account", "gmail", "my account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Load(tt.service, tt.account)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrNotFound))
		})
	}

	// Email-shaped accounts are legitimate keys.
	_, err = store.Load("gmail", "user@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
