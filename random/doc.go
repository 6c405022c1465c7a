// Package random provides uniform integer and token sampling for every
// place passforge needs randomness: dictionary offsets, line picks,
// numeric affixes, salts, and confirmation codes.
//
// A Sampler is backed by one of three entropy tiers, probed once at
// construction and never silently downgraded afterwards. The two crypto
// tiers are required for production use; the math/rand fallback exists
// only for environments where the OS entropy source is unreachable, and
// selecting it is surfaced through [Sampler.Tier] so callers can refuse
// or alert.
//
// Bounded ranges are sampled without modulo bias: the byte-backed tier
// masks draws to the next power of two and rejects out-of-range values
// instead of folding them.
package random
