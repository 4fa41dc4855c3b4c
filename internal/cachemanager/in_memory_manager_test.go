package cachemanager

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type parsedFile struct {
	Path  string
	Lines int
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[FileKey, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[FileKey, parsedFile]("models", DefaultExpiration, DefaultCleanupInterval)
	want := parsedFile{Path: "a.cpp", Lines: 12}
	cache.Set(context.Background(), "a.cpp|1", want, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "a.cpp|1")
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := NewInMemoryCacheManager[FileKey, string]("models", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "nope")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithWrongType(t *testing.T) {
	cache := NewInMemoryCacheManager[FileKey, string]("models", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("k", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "k")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[FileKey, string]("models", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "k", "v", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_GetWithRefreshExtendsTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[FileKey, string]("models", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "k", "v", 50*time.Millisecond)

	got, ok := cache.GetWithRefresh(ctx, "k", time.Hour)
	require.True(t, ok)
	require.Equal(t, "v", got)

	time.Sleep(80 * time.Millisecond)
	_, ok = cache.Get(ctx, "k")
	require.True(t, ok)

	_, ok = cache.GetWithRefresh(ctx, "missing", time.Hour)
	require.False(t, ok)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[FileKey, string]("models", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "a", "1", DefaultExpiration)
	cache.Set(ctx, "b", "2", DefaultExpiration)
	cache.Set(ctx, "c", "3", DefaultExpiration)

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 1, cache.Len())

	require.NoError(t, cache.Flush(ctx))
	require.Equal(t, 0, cache.Len())
}

func TestKeyForFile_ChangesWithContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.R")
	require.NoError(t, os.WriteFile(path, []byte("x <- 1\n"), 0o644))

	first, err := KeyForFile(path, "simple")
	require.NoError(t, err)

	other, err := KeyForFile(path, "chroma")
	require.NoError(t, err)
	require.NotEqual(t, first, other)

	require.NoError(t, os.WriteFile(path, []byte("x <- 10\n"), 0o644))
	second, err := KeyForFile(path, "simple")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = KeyForFile(filepath.Join(t.TempDir(), "missing.R"), "simple")
	require.Error(t, err)
}
