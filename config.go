package passforge

import (
	"fmt"
	"strings"
	"time"

	"github.com/passforge/passforge/dictionary"
	"github.com/passforge/passforge/password"
	"github.com/passforge/passforge/token"
)

// Config groups every engine setting. Construct with DefaultConfig and
// override fields before Build; configs are treated as immutable after
// Build.
type Config struct {
	Dictionary DictionaryConfig
	Sampler    SamplerConfig
	Generate   GenerateConfig
	Hash       HashConfig
	Strength   StrengthConfig
	Token      TokenConfig
	MatchCache MatchCacheConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

// DictionaryConfig locates the wordlist and sets its access mode.
type DictionaryConfig struct {
	// Path of the newline-delimited wordlist. Empty is legal: the
	// matcher reports no hits and the picker fails, per the documented
	// no-dictionary policy.
	Path string
	// Encoding is the IANA name of the file encoding; empty means
	// UTF-8.
	Encoding string
	// ChunkSize is the per-page byte budget for streaming scans.
	// Must exceed the longest dictionary line.
	ChunkSize int
	// CacheEnabled keeps the decoded wordlist in memory after the
	// first read.
	CacheEnabled bool
}

// SamplerConfig controls entropy-tier policy.
type SamplerConfig struct {
	// AllowInsecureFallback permits building an engine on the
	// math/rand tier when the CSPRNG probe fails. Off by default;
	// enabling it still records the degraded tier in metrics and
	// audit.
	AllowInsecureFallback bool
}

// GenerateConfig shapes generated passwords.
type GenerateConfig struct {
	// WordLength is the dictionary-word length to pick, in runes.
	WordLength int
	// DigitLength is the length of the numeric affix. Zero disables
	// the affix.
	DigitLength int
}

// HashScheme selects the password hashing scheme.
type HashScheme string

const (
	// SchemeArgon2 hashes with argon2id (default).
	SchemeArgon2 HashScheme = "argon2id"
	// SchemeDigest hashes with the salted iterated-digest wrapper.
	SchemeDigest HashScheme = "digest"
)

// HashConfig selects and parameterizes the hashing scheme.
type HashConfig struct {
	Scheme HashScheme
	Digest password.DigestConfig
	Argon2 password.Argon2Params
}

// StrengthConfig controls analysis policy.
type StrengthConfig struct {
	// MinAcceptableScore marks AnalyzeResult.Acceptable; scores range
	// 0-4.
	MinAcceptableScore int
	// Hints are caller-known strings passwords must not contain
	// (product name, domain).
	Hints []string
}

// TokenConfig enables signed reset/delivery tokens.
type TokenConfig struct {
	Enabled bool
	Token   token.Config
}

// MatchCacheConfig enables the Redis verdict cache. It takes effect
// only when the builder is given a Redis client.
type MatchCacheConfig struct {
	Enabled bool
	// Prefix namespaces cache keys. Defaults inside the store.
	Prefix string
	// TTL bounds verdict lifetime; zero means no expiry.
	TTL time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled bool
	// BufferSize of the event queue.
	BufferSize int
	// DropIfFull sheds events instead of blocking the hot path.
	DropIfFull bool
}

// MetricsConfig controls the atomic counter set.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline: streaming dictionary access,
// argon2id hashing, metrics on, audit off, token issuance off.
func DefaultConfig() Config {
	return Config{
		Dictionary: DictionaryConfig{
			ChunkSize: dictionary.DefaultChunkSize,
		},
		Generate: GenerateConfig{
			WordLength:  8,
			DigitLength: 3,
		},
		Hash: HashConfig{
			Scheme: SchemeArgon2,
			Argon2: password.DefaultArgon2Params(),
		},
		Strength: StrengthConfig{
			MinAcceptableScore: 3,
		},
		Token: TokenConfig{
			Token: token.Config{TTL: 15 * time.Minute},
		},
		MatchCache: MatchCacheConfig{
			TTL: 24 * time.Hour,
		},
		Audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Validate checks cross-field consistency. Build calls it; exposing it
// lets callers fail fast on hand-built configs.
func (c *Config) Validate() error {
	if c.Dictionary.ChunkSize < 0 {
		return fmt.Errorf("%w: negative dictionary chunk size", ErrInvalidArgument)
	}
	if c.Generate.WordLength < 1 {
		return fmt.Errorf("%w: word length must be at least 1", ErrInvalidArgument)
	}
	if c.Generate.DigitLength < 0 {
		return fmt.Errorf("%w: negative digit length", ErrInvalidArgument)
	}
	switch c.Hash.Scheme {
	case SchemeArgon2, SchemeDigest:
	default:
		return fmt.Errorf("%w: unknown hash scheme %q", ErrInvalidArgument, c.Hash.Scheme)
	}
	if c.Hash.Scheme == SchemeDigest {
		alg := strings.ToLower(strings.TrimSpace(c.Hash.Digest.Algorithm))
		if alg != "" && alg != "sha256" && alg != "sha512" {
			return fmt.Errorf("%w: unsupported digest %q", ErrInvalidArgument, c.Hash.Digest.Algorithm)
		}
	}
	if c.Strength.MinAcceptableScore < 0 || c.Strength.MinAcceptableScore > 4 {
		return fmt.Errorf("%w: min acceptable score out of 0-4", ErrInvalidArgument)
	}
	if c.Token.Enabled && c.Token.Token.TTL <= 0 {
		return fmt.Errorf("%w: token TTL must be positive", ErrInvalidArgument)
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return fmt.Errorf("%w: audit buffer size must be positive", ErrInvalidArgument)
	}
	return nil
}

// cloneConfig copies caller-held slices so later caller mutation
// cannot reach the engine.
func cloneConfig(c Config) Config {
	out := c
	out.Strength.Hints = append([]string(nil), c.Strength.Hints...)
	out.Token.Token.PrivateKey = append([]byte(nil), c.Token.Token.PrivateKey...)
	out.Token.Token.PublicKey = append([]byte(nil), c.Token.Token.PublicKey...)
	return out
}
