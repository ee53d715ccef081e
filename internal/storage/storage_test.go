package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/config"
)

func exerciseKV(t *testing.T, kv KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "a", "1"))
	require.NoError(t, kv.Set(ctx, "a", "2"))
	v, ok, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	require.NoError(t, kv.Remove(ctx, "a"))
	_, ok, err = kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, kv.Remove(ctx, "never-set"))
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	kv, err := NewFileStore(filepath.Join(t.TempDir(), "kv.json"), internal.NopLogger())
	require.NoError(t, err)
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestSQLiteStore(t *testing.T) {
	kv, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "kv.db"), internal.NopLogger())
	require.NoError(t, err)
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestFileStore_PersistsOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kv.json")
	ctx := context.Background()

	kv, err := NewFileStore(path, internal.NopLogger(), WithSaveDelay(time.Hour))
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", `["x"]`))
	require.NoError(t, kv.Close())
	assert.NoError(t, kv.Close())

	reopened, err := NewFileStore(path, internal.NopLogger())
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["x"]`, v)
}

func TestFileStore_DebouncedSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	kv, err := NewFileStore(path, internal.NopLogger(), WithSaveDelay(10*time.Millisecond))
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set(context.Background(), "k", "v"))
	assert.Eventually(t, func() bool {
		info, err := os.Stat(path)
		return err == nil && info.Size() > 0
	}, time.Second, 5*time.Millisecond)
}

func TestFileStore_EmptyAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	kv, err := NewFileStore(empty, internal.NopLogger())
	require.NoError(t, err)
	kv.Close()

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))
	_, err = NewFileStore(corrupt, internal.NopLogger())
	assert.Error(t, err)
}

func TestFileStore_SkipsNonStringValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":"1","b":[1,2],"c":"3","d":null}`), 0o644))

	kv, err := NewFileStore(path, internal.NopLogger())
	require.NoError(t, err)
	defer kv.Close()

	ctx := context.Background()
	for key, want := range map[string]string{"a": "1", "c": "3"} {
		v, ok, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, want, v)
	}
	for _, key := range []string{"b", "d"} {
		_, ok, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestNopStore(t *testing.T) {
	ctx := context.Background()
	kv := NopStore{}
	require.NoError(t, kv.Set(ctx, "a", "1"))
	_, ok, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew_FallsBackToNop(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "kv.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("[1,2"), 0o644))

	cfg := config.Defaults()
	cfg.KVFile = corrupt
	kv := New(context.Background(), cfg, internal.NopLogger())
	assert.IsType(t, NopStore{}, kv)

	cfg.StorageBackend = "memory"
	assert.IsType(t, &MemoryStore{}, New(context.Background(), cfg, internal.NopLogger()))
}
