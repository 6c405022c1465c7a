package dictionary

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrPickExhausted is returned when repeated window sampling never finds
// a line of the requested length. The search is rejection sampling with
// no natural bound, so the implementation caps the retries instead of
// spinning forever on a dictionary that lacks such a line.
var ErrPickExhausted = errors.New("no dictionary line of requested length found")

// maxPickAttempts bounds the window rejection loop. Any dictionary that
// actually contains a line of the requested length is overwhelmingly
// likely to yield one well before this.
const maxPickAttempts = 64

// IntSource supplies uniform integers over [min, max]; *random.Sampler
// satisfies it.
type IntSource interface {
	Int(min, max int) (int, error)
}

// PickLineOfLength returns a uniformly random line of exactly length
// runes from the wordlist. The handle must have a path configured. An
// empty dictionary yields an empty result.
//
// The pick samples a random chunk-sized window of the text, discards
// partial lines at the window edges, and draws uniformly among the
// complete lines of the requested length; windows with no such line are
// rejected and re-sampled, up to maxPickAttempts before giving up with
// ErrPickExhausted.
func PickLineOfLength(h *Handle, src IntSource, length int) (string, error) {
	if h == nil || h.path == "" {
		return "", ErrNoDictionary
	}
	if length <= 0 {
		return "", fmt.Errorf("%w: non-positive line length %d", ErrPickExhausted, length)
	}

	text, err := h.fullText()
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", nil
	}

	for range maxPickAttempts {
		window, err := sampleWindow(text, h.chunkSize, src)
		if err != nil {
			return "", err
		}
		if window == "" {
			continue
		}

		lines := strings.Split(window, "\n")
		matches := lines[:0]
		for _, line := range lines {
			if line != "" && utf8.RuneCountInString(line) == length {
				matches = append(matches, line)
			}
		}
		if len(matches) == 0 {
			continue
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
		idx, err := src.Int(0, len(matches)-1)
		if err != nil {
			return "", err
		}
		return matches[idx], nil
	}

	return "", ErrPickExhausted
}

// sampleWindow cuts a random chunk-sized window out of text and trims it
// to whole lines. The leading fragment of a line that began before the
// window and the trailing fragment of a line that continues past it are
// both discarded; their full lines are reachable from other window
// positions.
func sampleWindow(text string, chunkSize int, src IntSource) (string, error) {
	start := 0
	// Int is inclusive of both bounds; allowing start == upper lets the
	// window end at len(text), so the final line is reachable.
	if upper := len(text) - chunkSize; upper > 0 {
		var err error
		start, err = src.Int(0, upper)
		if err != nil {
			return "", err
		}
	}

	end := start + chunkSize
	if end > len(text) {
		end = len(text)
	}
	window := text[start:end]

	if start > 0 {
		nl := strings.IndexByte(window, '\n')
		if nl < 0 {
			return "", nil
		}
		window = window[nl+1:]
	}
	if end < len(text) && !strings.HasSuffix(window, "\n") {
		nl := strings.LastIndexByte(window, '\n')
		if nl < 0 {
			return "", nil
		}
		window = window[:nl+1]
	}
	return window, nil
}
