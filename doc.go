// Package passforge analyzes, generates, and hashes passwords against
// large on-disk wordlists that are never fully loaded into memory by
// default.
//
// The public surface is [Engine], built through [Builder]. Engines wrap
// four cooperating parts: a chunked window reader and streaming
// matcher/picker over the wordlist (package dictionary), a bias-free
// random sampler that drives every piece of randomness (package
// random), the hashing schemes (package password), and the strength
// scorer (package strength).
//
// # Architecture boundaries
//
// passforge is the facade. Algorithmic code lives in the topical
// subpackages and never imports this package back. The optional Redis
// match cache and other shared infrastructure live under internal/ and
// are not exported.
//
// # Concurrency
//
// Engine methods are safe for concurrent use after [Builder.Build],
// with one documented exception: the wordlist cache is a
// read-modify-write owned by the engine's dictionary handle, so
// ReloadDictionary and InvalidateDictionaryCache must not race with
// in-flight Analyze or Generate calls.
package passforge
