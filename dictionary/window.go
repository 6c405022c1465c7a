package dictionary

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	// DefaultChunkSize is the per-page byte budget used when a caller
	// does not configure one.
	DefaultChunkSize = 4096

	// maxCharWidth is the widest encoded character the reader must
	// protect against splitting (4 bytes covers all of UTF-8).
	maxCharWidth = 4
)

// ErrUnknownEncoding is returned when an encoding name cannot be
// resolved, before any file I/O happens.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// resolveEncoding maps an IANA encoding name to a decoder. An empty name
// or any UTF-8 spelling resolves to nil, meaning bytes pass through
// untouched.
func resolveEncoding(name string) (encoding.Encoding, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(trimmed)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

// ReadWindow reads one page of a file as decoded text. Pages are
// 1-indexed and chunkSize bytes wide; non-positive arguments fall back
// to DefaultChunkSize and page 1. A read at or past the end of the file
// returns the empty string with no error.
//
// For UTF-8 input the window is adjusted so that a character straddling
// a page boundary lands wholly in the later page: the reader fetches up
// to maxCharWidth bytes of lookback before the nominal start to capture
// a character that began on the previous page, and drops trailing bytes
// of a character that will begin the next page's window.
func ReadWindow(path string, chunkSize, page int, encodingName string) (string, error) {
	enc, err := resolveEncoding(encodingName)
	if err != nil {
		return "", err
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < maxCharWidth {
		// A chunk narrower than one character could produce an empty
		// mid-file window, which is indistinguishable from the empty
		// string that signals end of file.
		chunkSize = maxCharWidth
	}
	if page < 1 {
		page = 1
	}

	start := chunkSize * (page - 1)
	lookback := maxCharWidth
	if start < lookback {
		lookback = start
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	buf := make([]byte, chunkSize+maxCharWidth)
	n, err := f.ReadAt(buf, int64(start-lookback))
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read wordlist window: %w", err)
	}
	raw := buf[:n]
	if n <= lookback {
		// Nothing at or beyond the nominal start: end of file.
		return "", nil
	}

	if enc != nil {
		// Single-byte encodings place a character boundary at every
		// byte, so the nominal byte range needs no adjustment.
		end := lookback + chunkSize
		if end > len(raw) {
			end = len(raw)
		}
		decoded, derr := enc.NewDecoder().Bytes(raw[lookback:end])
		if derr != nil {
			return "", fmt.Errorf("decode wordlist window: %w", derr)
		}
		return string(decoded), nil
	}

	front := utf8Front(raw, lookback)
	end := utf8End(raw, front, lookback+chunkSize)
	return string(raw[front:end]), nil
}

// utf8Front locates the window's first byte: the start of the rune that
// covers the nominal boundary at raw[nominal]. A rune beginning up to
// three bytes earlier but ending at or after the boundary belongs to
// this window; a rune ending before it belongs to the previous page.
func utf8Front(raw []byte, nominal int) int {
	if nominal == 0 {
		return 0
	}
	for back := 1; back < maxCharWidth && back <= nominal; back++ {
		i := nominal - back
		if !utf8.RuneStart(raw[i]) {
			continue
		}
		_, size := utf8.DecodeRune(raw[i:])
		if i+size > nominal {
			return i
		}
		break
	}
	return nominal
}

// utf8End walks runes forward from front and cuts before the first rune
// whose final byte would land at or past the nominal end. Those bytes
// are re-read by the next page's lookback.
func utf8End(raw []byte, front, nominalEnd int) int {
	if nominalEnd > len(raw) {
		nominalEnd = len(raw)
	}
	i := front
	for i < nominalEnd {
		_, size := utf8.DecodeRune(raw[i:])
		if size == 0 {
			break
		}
		if i+size > nominalEnd {
			break
		}
		i += size
	}
	return i
}

// readAll reads and decodes an entire wordlist. It backs the cached
// paths of the matcher and picker.
func readAll(path, encodingName string) (string, error) {
	enc, err := resolveEncoding(encodingName)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read wordlist: %w", err)
	}
	if enc == nil {
		return string(data), nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode wordlist: %w", err)
	}
	return string(decoded), nil
}
