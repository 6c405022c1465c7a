// Package dictionary provides streaming access to large newline-delimited
// wordlists without loading them into memory by default.
//
// The package is built from three pieces: ReadWindow extracts a
// boundary-safe text window at an arbitrary page of a file, Handle owns
// an optional full-text cache of a wordlist, and the matcher and picker
// walk a wordlist through windows to answer exact-line membership and to
// draw uniformly random lines of a requested length.
//
// Windows never split a multi-byte character: each read over-fetches a
// small lookback margin before the nominal page start, and a character
// straddling a page boundary is assigned to the page that contains its
// final byte. Concatenating consecutive pages therefore reconstructs the
// file's text exactly.
package dictionary
