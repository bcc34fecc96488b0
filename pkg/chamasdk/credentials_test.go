package chamasdk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	t.Parallel()

	t.Run("missing file loads empty", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

		creds, err := store.Load()
		require.NoError(t, err)
		require.True(t, creds.Empty())
	})

	t.Run("save and load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "credentials.json")
		store := NewFileStore(path)

		want := Credentials{Access: "a1", Refresh: "r1"}
		require.NoError(t, store.Save(want))

		got, err := NewFileStore(path).Load()
		require.NoError(t, err)
		require.Equal(t, want, got)

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("uses named slots", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		require.NoError(t, NewFileStore(path).Save(Credentials{Access: "a1", Refresh: "r1"}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.JSONEq(t, `{"access_token":"a1","refresh_token":"r1"}`, string(data))
	})

	t.Run("clear removes both tokens", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		store := NewFileStore(path)
		require.NoError(t, store.Save(Credentials{Access: "a1", Refresh: "r1"}))

		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear(), "clearing twice is fine")

		creds, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, Credentials{}, creds)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := NewFileStore(path).Load()
		require.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(Credentials{Access: "a1", Refresh: "r1"})

	creds, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "a1", creds.Access)

	require.NoError(t, store.Clear())
	creds, err = store.Load()
	require.NoError(t, err)
	require.True(t, creds.Empty())
}
