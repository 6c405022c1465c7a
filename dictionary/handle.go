package dictionary

import "errors"

// ErrNoDictionary is returned by operations that require a wordlist path
// when the handle has none configured.
var ErrNoDictionary = errors.New("no dictionary configured")

// HandleConfig configures a wordlist Handle.
type HandleConfig struct {
	// Path of the newline-delimited wordlist file.
	Path string
	// Encoding is the IANA name of the file's text encoding. Empty
	// means UTF-8.
	Encoding string
	// ChunkSize is the per-page byte budget for streaming scans.
	// Non-positive values fall back to DefaultChunkSize. Callers must
	// choose a chunk larger than the longest expected dictionary line.
	ChunkSize int
	// CacheEnabled keeps a full decoded copy of the file on the handle
	// after the first read, trading memory for scan speed.
	CacheEnabled bool
}

// Handle is a logical reference to a wordlist file plus an optional
// owned cache of its full text. The cache follows the handle's
// lifecycle only: it is dropped when the path changes or caching is
// disabled, and is never refreshed behind the caller's back. Reload
// explicitly after the underlying file changes.
//
// A Handle is owned by a single caller; cache population is a
// read-modify-write and is not safe for concurrent mutation.
type Handle struct {
	path         string
	encoding     string
	chunkSize    int
	cacheEnabled bool
	cached       *string
}

// NewHandle builds a Handle, applying the chunk-size default.
func NewHandle(cfg HandleConfig) *Handle {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &Handle{
		path:         cfg.Path,
		encoding:     cfg.Encoding,
		chunkSize:    cfg.ChunkSize,
		cacheEnabled: cfg.CacheEnabled,
	}
}

// Path returns the configured wordlist path.
func (h *Handle) Path() string { return h.path }

// Encoding returns the configured encoding name.
func (h *Handle) Encoding() string { return h.encoding }

// ChunkSize returns the per-page byte budget.
func (h *Handle) ChunkSize() int { return h.chunkSize }

// CacheEnabled reports whether the handle keeps a full-text cache.
func (h *Handle) CacheEnabled() bool { return h.cacheEnabled }

// SetPath points the handle at a different file and drops any cached
// content.
func (h *Handle) SetPath(path string) {
	h.path = path
	h.cached = nil
}

// SetCacheEnabled toggles caching. Disabling drops the cached content.
func (h *Handle) SetCacheEnabled(enabled bool) {
	h.cacheEnabled = enabled
	if !enabled {
		h.cached = nil
	}
}

// Cached returns the cached full text, if one is loaded.
func (h *Handle) Cached() (string, bool) {
	if h.cached == nil {
		return "", false
	}
	return *h.cached, true
}

// LoadCache reads the full wordlist, stores it on the handle, and
// returns it. It always re-reads the file, so it doubles as the explicit
// reload after an external change.
func (h *Handle) LoadCache() (string, error) {
	if h.path == "" {
		return "", ErrNoDictionary
	}
	text, err := readAll(h.path, h.encoding)
	if err != nil {
		return "", err
	}
	h.cached = &text
	return text, nil
}

// InvalidateCache drops the cached content; the next cached operation
// re-reads the file exactly once.
func (h *Handle) InvalidateCache() {
	h.cached = nil
}

// ensureCache returns the cached text, loading it on first use.
func (h *Handle) ensureCache() (string, error) {
	if h.cached != nil {
		return *h.cached, nil
	}
	return h.LoadCache()
}

// fullText returns the complete wordlist text, via the cache when
// enabled and by a direct read otherwise.
func (h *Handle) fullText() (string, error) {
	if h.cacheEnabled {
		return h.ensureCache()
	}
	if h.path == "" {
		return "", ErrNoDictionary
	}
	return readAll(h.path, h.encoding)
}
