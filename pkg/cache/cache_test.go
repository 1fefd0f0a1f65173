package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "github:tags:a/b"); hit {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Set(ctx, "github:tags:a/b", []byte(`["v1.0.0"]`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "github:tags:a/b")
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if string(data) != `["v1.0.0"]` {
		t.Errorf("expected stored data, got %s", data)
	}

	if err := c.Delete(ctx, "github:tags:a/b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "github:tags:a/b"); hit {
		t.Error("expected miss after delete")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should be a miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestFileCacheNoTTL(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "k", []byte("v"), 0)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("entry without TTL should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, hit, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("corrupt entry should not error: %v", err)
	}
	if hit {
		t.Error("corrupt entry should be a miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "recipesync")
	c, _ := NewFileCache(dir)

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("expected miss after clear")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Error("cache directory should exist after clear")
	}
}

func TestFileCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "shared", []byte("value"), time.Hour)
			if data, hit, _ := c.Get(ctx, "shared"); hit && string(data) != "value" {
				t.Errorf("read partial entry: %q", data)
			}
		}()
	}
	wg.Wait()
}

func TestNewFileCacheEmptyDir(t *testing.T) {
	if _, err := NewFileCache(""); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestKey(t *testing.T) {
	if got := Key("github", "tags", "BurntSushi/ripgrep"); got != "github:tags:BurntSushi/ripgrep" {
		t.Errorf("Key() = %q", got)
	}
	if got := Key("rubygems"); got != "rubygems:" {
		t.Errorf("Key() = %q", got)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("Hash should be 64 hex chars, got %d", len(h1))
	}
	if Hash([]byte("world")) == h1 {
		t.Error("different input should give different hash")
	}
}
