package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDiskCache(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root)

	if cache.Root != root {
		t.Errorf("Expected root %s, got %s", root, cache.Root)
	}
	if cache.MaxSize != 1*1024*1024*1024 {
		t.Errorf("Expected default max size 1GB, got %d", cache.MaxSize)
	}
}

func TestDiskCacheOptions(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root, WithTTL(time.Hour), WithMaxSize(1234))

	if cache.TTL != time.Hour {
		t.Errorf("Expected TTL 1h, got %v", cache.TTL)
	}
	if cache.MaxSize != 1234 {
		t.Errorf("Expected max size 1234, got %d", cache.MaxSize)
	}
}

func TestDiskCacheWrite(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root)
	key := "test-key"
	data := []byte("test data")

	err := cache.Write(key, data)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Verify file exists
	cachePath := cache.buildPath(key)
	absPath, _ := filepath.Abs(cachePath)
	if _, err := os.Stat(absPath); err != nil {
		t.Errorf("Cache file not found: %v", err)
	}
}

func TestDiskCacheFind_Hit(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root)
	key := "test-key"
	data := []byte("test data")

	cache.Write(key, data)

	found, err := cache.Find(key)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if string(found) != string(data) {
		t.Errorf("Expected %s, got %s", string(data), string(found))
	}
}

func TestDiskCacheFind_Miss(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root)
	key := "nonexistent-key"

	found, err := cache.Find(key)
	if err != nil {
		t.Fatalf("Find should not error on miss: %v", err)
	}

	if found != nil {
		t.Errorf("Expected nil for cache miss, got %v", found)
	}
}

func TestDiskCacheFind_ExpiredTTL(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root, WithTTL(time.Hour))
	key := "expiring-key"
	data := []byte("test data")

	cache.Write(key, data)

	// Age the cached file past the TTL.
	cachePath, _ := filepath.Abs(cache.buildPath(key))
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(cachePath, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	found, err := cache.Find(key)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil for expired item, got %v", found)
	}

	// Expired item should have been removed from disk.
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		t.Errorf("Expected expired file to be removed, stat err: %v", err)
	}
}

func TestDiskCacheDelete(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root)
	key := "test-key"
	data := []byte("test data")

	cache.Write(key, data)

	err := cache.Delete(key)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	found, err := cache.Find(key)
	if err != nil {
		t.Fatalf("Find after delete failed: %v", err)
	}

	if found != nil {
		t.Errorf("Expected nil after delete, got %v", found)
	}
}

func TestDiskCacheDeleteNonexistent(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root)
	key := "nonexistent-key"

	if err := cache.Delete(key); err != nil {
		t.Errorf("Expected no error when deleting nonexistent key, got %v", err)
	}
}

func TestDiskCacheBuildPath_Sharding(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root)
	key := "test-key"

	path := cache.buildPath(key)
	sha := SHA256(key)

	// Verify sharding structure
	expected := filepath.Join(root, sha[:2], sha)
	if path != expected {
		t.Errorf("Expected path %s, got %s", expected, path)
	}
}

func TestDiskCacheOverwrite(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root)
	key := "test-key"
	data1 := []byte("original data")
	data2 := []byte("new data")

	cache.Write(key, data1)
	cache.Write(key, data2)

	found, err := cache.Find(key)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if string(found) != string(data2) {
		t.Errorf("Expected %s, got %s", string(data2), string(found))
	}
}

func TestDiskCachePrune(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root, WithMaxSize(25))

	// Write three 10-byte items, oldest first.
	keys := []string{"key1", "key2", "key3"}
	for i, key := range keys {
		if err := cache.Write(key, []byte("0123456789")); err != nil {
			t.Fatalf("Write failed for %s: %v", key, err)
		}
		// Spread out modification times so pruning order is deterministic.
		cachePath, _ := filepath.Abs(cache.buildPath(key))
		mtime := time.Now().Add(time.Duration(i-len(keys)) * time.Hour)
		if err := os.Chtimes(cachePath, mtime, mtime); err != nil {
			t.Fatalf("Chtimes failed: %v", err)
		}
	}

	if err := cache.Prune(); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}

	// The oldest item should be gone, the newest should survive.
	if found, _ := cache.Find("key1"); found != nil {
		t.Error("Expected oldest item to be pruned")
	}
	if found, _ := cache.Find("key3"); found == nil {
		t.Error("Expected newest item to survive pruning")
	}
}

func TestDiskCachePrune_UnderLimit(t *testing.T) {
	root := t.TempDir()
	cache := NewDiskCache(root, WithMaxSize(1024))

	cache.Write("key", []byte("small"))

	if err := cache.Prune(); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}

	if found, _ := cache.Find("key"); found == nil {
		t.Error("Expected item under the size limit to survive pruning")
	}
}
