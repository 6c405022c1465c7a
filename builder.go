package passforge

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/passforge/passforge/dictionary"
	"github.com/passforge/passforge/internal/store"
	"github.com/passforge/passforge/password"
	"github.com/passforge/passforge/random"
	"github.com/passforge/passforge/token"
)

// Builder assembles an Engine. A Builder is single-use: Build consumes
// it.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	auditSink AuditSink
	sampler   *random.Sampler
	built     bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithDictionary points the engine at a wordlist path, keeping the rest
// of the dictionary settings.
func (b *Builder) WithDictionary(path string) *Builder {
	b.config.Dictionary.Path = path
	return b
}

// WithRedis supplies the client backing the optional match cache.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink installs the sink receiving audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the counter set.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// withSampler pins the entropy source; used by tests to exercise tier
// policy deterministically.
func (b *Builder) withSampler(s *random.Sampler) *Builder {
	b.sampler = s
	return b
}

// Build validates the configuration, probes the entropy source, and
// wires the engine. The builder cannot be reused afterwards.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already consumed")
	}
	b.built = true

	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	sampler := b.sampler
	if sampler == nil {
		sampler = random.New()
	}

	metrics := NewMetrics(b.config.Metrics)
	audit := newAuditDispatcher(b.config.Audit, b.auditSink)

	if !sampler.Tier().Secure() {
		if !b.config.Sampler.AllowInsecureFallback {
			audit.Close()
			return nil, fmt.Errorf("%w: tier %s", ErrInsecureEntropy, sampler.Tier())
		}
		// Running degraded is allowed but never silent.
		metrics.Inc(MetricInsecureEntropy)
		emitEvent(audit, EventEntropyWarning, false, "non-cryptographic entropy tier selected", map[string]string{
			"tier": sampler.Tier().String(),
		})
	}

	handle := dictionary.NewHandle(dictionary.HandleConfig{
		Path:         b.config.Dictionary.Path,
		Encoding:     b.config.Dictionary.Encoding,
		ChunkSize:    b.config.Dictionary.ChunkSize,
		CacheEnabled: b.config.Dictionary.CacheEnabled,
	})

	hasher, err := newHasher(b.config.Hash, sampler)
	if err != nil {
		audit.Close()
		return nil, err
	}

	var tokens *token.Manager
	if b.config.Token.Enabled {
		tokens, err = token.NewManager(b.config.Token.Token)
		if err != nil {
			audit.Close()
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}

	var matchCache *store.MatchCache
	if b.config.MatchCache.Enabled && b.redis != nil {
		matchCache = store.NewMatchCache(b.redis, b.config.MatchCache.Prefix, b.config.MatchCache.TTL)
	}

	return &Engine{
		config:     b.config,
		sampler:    sampler,
		handle:     handle,
		hasher:     hasher,
		tokens:     tokens,
		matchCache: matchCache,
		metrics:    metrics,
		audit:      audit,
	}, nil
}

// hasher unifies the two password schemes behind the engine.
type hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

func newHasher(cfg HashConfig, sampler *random.Sampler) (hasher, error) {
	switch cfg.Scheme {
	case SchemeDigest:
		d, err := password.NewDigest(cfg.Digest, sampler)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return d, nil
	default:
		a, err := password.NewArgon2(cfg.Argon2)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return a, nil
	}
}
