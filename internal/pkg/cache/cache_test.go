package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResponseCache_SetAndGet(t *testing.T) {
	cache, err := NewResponseCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewResponseCache() error = %v", err)
	}

	if err := cache.Set("key1", "feat: add x"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, ok := cache.Get("key1")
	if !ok {
		t.Error("expected key1 to exist")
	}
	if val != "feat: add x" {
		t.Errorf("expected 'feat: add x', got %q", val)
	}

	if _, ok := cache.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}
	if cache.Size() != 1 {
		t.Errorf("Size() = %d, want 1", cache.Size())
	}
}

func TestResponseCache_Expiration(t *testing.T) {
	cache, err := NewResponseCache("", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewResponseCache() error = %v", err)
	}

	_ = cache.Set("key1", "value1")
	if _, ok := cache.Get("key1"); !ok {
		t.Error("expected key1 to exist immediately")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("key1"); ok {
		t.Error("expected key1 to be expired")
	}
}

func TestResponseCache_PersistsBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	first, err := NewResponseCache(path, time.Hour)
	if err != nil {
		t.Fatalf("NewResponseCache() error = %v", err)
	}
	if err := first.Set("k", "docs: readme"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("cache file mode = %v, want 0600", info.Mode().Perm())
	}

	second, err := NewResponseCache(path, time.Hour)
	if err != nil {
		t.Fatalf("NewResponseCache() error = %v", err)
	}
	if v, ok := second.Get("k"); !ok || v != "docs: readme" {
		t.Errorf("Get() = %q, %v after reload", v, ok)
	}

	if err := second.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	third, _ := NewResponseCache(path, time.Hour)
	if third.Size() != 0 {
		t.Errorf("Size() = %d after Clear, want 0", third.Size())
	}
}

func TestResponseCache_SkipsExpiredAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	expired := filepath.Join(dir, "expired.json")
	data := `[{"key":"old","value":"v","expires_at":"2000-01-01T00:00:00Z"}]`
	if err := os.WriteFile(expired, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	cache, err := NewResponseCache(expired, time.Hour)
	if err != nil {
		t.Fatalf("NewResponseCache() error = %v", err)
	}
	if _, ok := cache.Get("old"); ok {
		t.Error("expired entry should not be loaded")
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewResponseCache(corrupt, time.Hour); err != nil {
		t.Errorf("corrupt cache should be ignored, got %v", err)
	}
}

func TestGenerateCacheKey(t *testing.T) {
	key1 := GenerateCacheKey("prompt", "openai", "gpt-3.5-turbo")
	key2 := GenerateCacheKey("prompt", "openai", "gpt-3.5-turbo")
	key3 := GenerateCacheKey("prompt", "ollama", "gpt-3.5-turbo")

	if key1 != key2 {
		t.Error("same inputs should produce the same key")
	}
	if key1 == key3 {
		t.Error("different providers should produce different keys")
	}
	if len(key1) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(key1))
	}
}
