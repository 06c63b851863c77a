package probecache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "probe_cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestGetMissThenHit(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "/a.mp3", 100, 42); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Put(ctx, "/a.mp3", 100, 42, 12.75); err != nil {
		t.Fatalf("Put: %v", err)
	}
	duration, ok, err := cache.Get(ctx, "/a.mp3", 100, 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || duration != 12.75 {
		t.Fatalf("hit = (%v, %v), want (12.75, true)", duration, ok)
	}
}

func TestChangedIdentityMisses(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Put(ctx, "/a.mp3", 100, 42, 12.75); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := cache.Get(ctx, "/a.mp3", 101, 42); err != nil || ok {
		t.Fatalf("size change should miss, got ok=%v err=%v", ok, err)
	}
	if _, ok, err := cache.Get(ctx, "/a.mp3", 100, 43); err != nil || ok {
		t.Fatalf("mtime change should miss, got ok=%v err=%v", ok, err)
	}
}

func TestPutReplacesStaleIdentities(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Put(ctx, "/a.mp3", 100, 42, 12.75); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.Put(ctx, "/a.mp3", 200, 43, 20.0); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	count, err := cache.Len(ctx)
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if count != 1 {
		t.Fatalf("entry count = %d, want 1 (stale identity dropped)", count)
	}
	if _, ok, _ := cache.Get(ctx, "/a.mp3", 100, 42); ok {
		t.Fatal("stale identity still present")
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_cache.db")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Put(ctx, "/a.mp3", 100, 42, 5.5); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	duration, ok, err := second.Get(ctx, "/a.mp3", 100, 42)
	if err != nil || !ok || duration != 5.5 {
		t.Fatalf("reopened hit = (%v, %v, %v)", duration, ok, err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_cache.db")
	cache, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := cache.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
