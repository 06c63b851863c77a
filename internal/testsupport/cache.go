package testsupport

import (
	"testing"

	"m4bforge/internal/probecache"
)

// MustOpenCache opens a probe cache for tests and registers cleanup.
func MustOpenCache(t testing.TB, path string) *probecache.Cache {
	t.Helper()

	cache, err := probecache.Open(path)
	if err != nil {
		t.Fatalf("probecache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.Close()
	})
	return cache
}
