package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	mrand "math/rand/v2"
	"strings"
)

var (
	// ErrInvalidRange is returned when min or max violate the sampling
	// contract (min must be >= 0, max must be > 0).
	ErrInvalidRange = errors.New("invalid sampling range")
	// ErrEntropyFailure is returned when the selected entropy source
	// fails mid-draw.
	ErrEntropyFailure = errors.New("entropy source failure")
)

// Tier identifies which entropy backend a Sampler selected at
// construction, ordered from most to least preferred.
type Tier int

const (
	// TierCryptoInt draws through the platform CSPRNG's integer helper.
	TierCryptoInt Tier = iota
	// TierCryptoBytes draws raw CSPRNG bytes and applies mask-and-reject
	// sampling to remove modulo bias.
	TierCryptoBytes
	// TierMathFallback is a non-cryptographic PRNG used only when the
	// CSPRNG probe fails. Callers must treat it as a degraded mode.
	TierMathFallback
)

func (t Tier) String() string {
	switch t {
	case TierCryptoInt:
		return "crypto-int"
	case TierCryptoBytes:
		return "crypto-bytes"
	case TierMathFallback:
		return "math-fallback"
	default:
		return "unknown"
	}
}

// Secure reports whether the tier is backed by a CSPRNG.
func (t Tier) Secure() bool {
	return t == TierCryptoInt || t == TierCryptoBytes
}

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Rejection sampling succeeds per round with probability > 1/2, so a
	// run of this many misses indicates a broken entropy source rather
	// than bad luck.
	maxRejectionRounds = 128
)

// Sampler produces uniformly distributed integers and tokens from the
// strongest available entropy source. The zero value is not usable;
// construct with New or NewWithTier.
//
// Sampler is safe for concurrent use.
type Sampler struct {
	tier Tier
}

// New probes the platform CSPRNG and returns a Sampler on the highest
// available tier. It never returns an error: if the CSPRNG probe fails
// the sampler falls back to TierMathFallback, and it is the caller's
// job to check Tier and reject or warn.
func New() *Sampler {
	var probe [1]byte
	if _, err := crand.Read(probe[:]); err != nil {
		return &Sampler{tier: TierMathFallback}
	}
	return &Sampler{tier: TierCryptoInt}
}

// NewWithTier pins the sampler to a specific backend. It exists for the
// byte-backed rejection path (which the default probe never selects on a
// healthy system) and for exercising the fallback in tests.
func NewWithTier(t Tier) (*Sampler, error) {
	switch t {
	case TierCryptoInt, TierCryptoBytes:
		var probe [1]byte
		if _, err := crand.Read(probe[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
		}
	case TierMathFallback:
	default:
		return nil, fmt.Errorf("%w: unknown tier %d", ErrInvalidRange, t)
	}
	return &Sampler{tier: t}, nil
}

// Tier reports which entropy backend the sampler selected.
func (s *Sampler) Tier() Tier {
	return s.tier
}

// Int returns a uniform integer in [min, max], inclusive of both
// bounds. min must be >= 0 and max must be > 0. If min >= max the range
// collapses to [min, min+1] rather than failing.
func (s *Sampler) Int(min, max int) (int, error) {
	if min < 0 || max <= 0 {
		return 0, fmt.Errorf("%w: min=%d max=%d", ErrInvalidRange, min, max)
	}
	if min >= max {
		max = min + 1
	}
	span := max - min + 1

	switch s.tier {
	case TierCryptoInt:
		n, err := crand.Int(crand.Reader, big.NewInt(int64(span)))
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
		}
		return min + int(n.Int64()), nil
	case TierCryptoBytes:
		v, err := rejectUniform(span)
		if err != nil {
			return 0, err
		}
		return min + v, nil
	default:
		return min + mrand.IntN(span), nil
	}
}

// rejectUniform draws a uniform value in [0, span) from CSPRNG bytes.
// Draws are masked to the next power of two >= span and rejected while
// out of range, so every surviving value is equally likely.
func rejectUniform(span int) (int, error) {
	if span <= 1 {
		return 0, nil
	}
	nbits := bits.Len(uint(span - 1))
	nbytes := (nbits + 7) / 8
	mask := uint64(1)<<nbits - 1

	var buf [8]byte
	for range maxRejectionRounds {
		if _, err := crand.Read(buf[:nbytes]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
		}
		v := binary.LittleEndian.Uint64(buf[:]) & mask
		if v < uint64(span) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("%w: rejection sampling exhausted after %d rounds", ErrEntropyFailure, maxRejectionRounds)
}

// Token returns a string of length uniform draws from pattern, treated
// as a sequence of runes so multi-byte alphabets index correctly. A
// non-positive length yields the empty string; an empty pattern falls
// back to the 62-character alphanumeric set.
func (s *Sampler) Token(length int, pattern string) (string, error) {
	if length <= 0 {
		return "", nil
	}
	if pattern == "" {
		pattern = alphanumeric
	}
	runes := []rune(pattern)
	if len(runes) == 1 {
		return strings.Repeat(string(runes[0]), length), nil
	}

	var b strings.Builder
	b.Grow(length)
	for range length {
		idx, err := s.Int(0, len(runes)-1)
		if err != nil {
			return "", err
		}
		b.WriteRune(runes[idx])
	}
	return b.String(), nil
}
