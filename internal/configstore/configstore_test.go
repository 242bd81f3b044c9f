package configstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/blakestevenson/moviedetails/internal/db"
	"github.com/blakestevenson/moviedetails/internal/plugins"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "plugin", "data.json")

	store := New(NewFileBackend(path))

	_, err := store.GetString(ctx, "plugins.moviedetails.api_key")
	assert.ErrorIs(t, err, plugins.ErrSettingNotFound)

	value, err := store.GetOrDefault(ctx, "plugins.moviedetails.api_key", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", value)

	require.NoError(t, store.SetString(ctx, "plugins.moviedetails.api_key", "abc123"))

	reopened := New(NewFileBackend(path))
	value, err = reopened.GetString(ctx, "plugins.moviedetails.api_key")
	require.NoError(t, err)
	assert.Equal(t, "abc123", value)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := New(NewFileBackend(filepath.Join(t.TempDir(), "data.json")))

	require.NoError(t, store.SetString(ctx, "a", "1"))
	require.NoError(t, store.SetString(ctx, "b", "2"))
	require.NoError(t, store.Delete(ctx, "a"))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.JSONEq(t, `"2"`, string(all["b"]))

	assert.ErrorIs(t, store.Delete(ctx, "a"), plugins.ErrSettingNotFound)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(NewFileBackend(path)).GetString(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, plugins.ErrSettingNotFound)
}

func TestGetStringTypeMismatch(t *testing.T) {
	ctx := context.Background()
	store := New(NewFileBackend(filepath.Join(t.TempDir(), "data.json")))

	require.NoError(t, store.Set(ctx, "n", 42))
	_, err := store.GetString(ctx, "n")
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, url, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.EnsureSchema(ctx, pool))

	store := New(NewPostgresBackend(pool))
	key := "test." + t.Name()
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	_, err = store.GetString(ctx, key)
	assert.ErrorIs(t, err, plugins.ErrSettingNotFound)

	require.NoError(t, store.SetString(ctx, key, "first"))
	require.NoError(t, store.SetString(ctx, key, "second"))

	value, err := store.GetString(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}
