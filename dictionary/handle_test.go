package dictionary

import (
	"errors"
	"os"
	"testing"
)

func TestHandleDefaults(t *testing.T) {
	h := NewHandle(HandleConfig{Path: "x"})
	if h.ChunkSize() != DefaultChunkSize {
		t.Fatalf("expected default chunk size, got %d", h.ChunkSize())
	}
	if h.CacheEnabled() {
		t.Fatal("caching must default to disabled")
	}
	if _, ok := h.Cached(); ok {
		t.Fatal("new handle must not report cached content")
	}
}

func TestLoadCacheIdempotent(t *testing.T) {
	path := writeWordlist(t, "alpha\nbeta\n")
	h := NewHandle(HandleConfig{Path: path, CacheEnabled: true})

	first, err := h.LoadCache()
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := h.LoadCache()
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first != second || first != "alpha\nbeta\n" {
		t.Fatalf("repeated loads must agree on unchanged file: %q vs %q", first, second)
	}
}

func TestCacheNotAutoRefreshed(t *testing.T) {
	path := writeWordlist(t, "old\n")
	h := NewHandle(HandleConfig{Path: path, CacheEnabled: true})

	if got, err := ContainsLine(h, "old"); err != nil || !got {
		t.Fatalf("expected match before rewrite, got %v err %v", got, err)
	}

	if err := os.WriteFile(path, []byte("new\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	// The stale cache answers until explicitly invalidated.
	if got, _ := ContainsLine(h, "old"); !got {
		t.Fatal("cached content must survive an external file change")
	}
	if got, _ := ContainsLine(h, "new"); got {
		t.Fatal("cache must not refresh behind the caller's back")
	}

	h.InvalidateCache()

	if got, err := ContainsLine(h, "new"); err != nil || !got {
		t.Fatalf("expected fresh content after invalidate, got %v err %v", got, err)
	}
	if got, _ := ContainsLine(h, "old"); got {
		t.Fatal("stale content matched after invalidate")
	}
}

func TestSetPathInvalidatesCache(t *testing.T) {
	first := writeWordlist(t, "one\n")
	second := writeWordlist(t, "two\n")

	h := NewHandle(HandleConfig{Path: first, CacheEnabled: true})
	if _, err := h.LoadCache(); err != nil {
		t.Fatalf("load: %v", err)
	}

	h.SetPath(second)
	if _, ok := h.Cached(); ok {
		t.Fatal("path change must drop the cache")
	}
	if got, err := ContainsLine(h, "two"); err != nil || !got {
		t.Fatalf("expected match against new path, got %v err %v", got, err)
	}
}

func TestSetCacheEnabledFalseDropsCache(t *testing.T) {
	h := NewHandle(HandleConfig{Path: writeWordlist(t, "word\n"), CacheEnabled: true})
	if _, err := h.LoadCache(); err != nil {
		t.Fatalf("load: %v", err)
	}
	h.SetCacheEnabled(false)
	if _, ok := h.Cached(); ok {
		t.Fatal("disabling caching must drop cached content")
	}
}

func TestLoadCacheWithoutPath(t *testing.T) {
	h := NewHandle(HandleConfig{})
	if _, err := h.LoadCache(); !errors.Is(err, ErrNoDictionary) {
		t.Fatalf("expected ErrNoDictionary, got %v", err)
	}
}
