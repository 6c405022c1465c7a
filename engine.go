package passforge

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/passforge/passforge/dictionary"
	"github.com/passforge/passforge/internal/store"
	"github.com/passforge/passforge/random"
	"github.com/passforge/passforge/strength"
	"github.com/passforge/passforge/token"
)

// Engine is the passforge facade. Build one through [Builder]; the zero
// value is not usable.
type Engine struct {
	config     Config
	sampler    *random.Sampler
	handle     *dictionary.Handle
	hasher     hasher
	tokens     *token.Manager
	matchCache *store.MatchCache
	metrics    *Metrics
	audit      *auditDispatcher
	closed     atomic.Bool
}

// Close stops the audit dispatcher after draining queued events.
func (e *Engine) Close() {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.audit.Close()
}

// EntropyTier reports which entropy backend the engine runs on.
func (e *Engine) EntropyTier() random.Tier {
	return e.sampler.Tier()
}

// Generate picks a dictionary word and assembles a password from it,
// optionally gluing a random numeric affix before or after the word
// with the side itself chosen at random.
func (e *Engine) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	var res GenerateResult
	if e.closed.Load() {
		return res, ErrEngineClosed
	}

	wordLength := req.WordLength
	if wordLength <= 0 {
		wordLength = e.config.Generate.WordLength
	}
	digitLength := req.DigitLength
	if digitLength == 0 {
		digitLength = e.config.Generate.DigitLength
	}
	if digitLength < 0 {
		digitLength = 0
	}

	word, err := dictionary.PickLineOfLength(e.handle, e.sampler, wordLength)
	if err != nil {
		e.metrics.Inc(MetricGenerateFailure)
		if errors.Is(err, dictionary.ErrPickExhausted) {
			e.metrics.Inc(MetricPickExhausted)
		}
		err = e.wrapGenerateErr(err)
		e.emit(ctx, EventGenerate, false, err.Error(), nil)
		return res, err
	}
	res.Word = word

	if digitLength > 0 {
		digits, err := e.sampler.Token(digitLength, "0123456789")
		if err != nil {
			e.metrics.Inc(MetricGenerateFailure)
			err = fmt.Errorf("%w: %v", ErrGenerationFailed, err)
			e.emit(ctx, EventGenerate, false, err.Error(), nil)
			return GenerateResult{}, err
		}
		side, err := e.sampler.Int(0, 1)
		if err != nil {
			e.metrics.Inc(MetricGenerateFailure)
			err = fmt.Errorf("%w: %v", ErrGenerationFailed, err)
			e.emit(ctx, EventGenerate, false, err.Error(), nil)
			return GenerateResult{}, err
		}
		res.Digits = digits
		res.DigitsFirst = side == 1
	}

	if res.DigitsFirst {
		res.Password = res.Digits + res.Word
	} else {
		res.Password = res.Word + res.Digits
	}

	e.metrics.Inc(MetricGenerateSuccess)
	e.emit(ctx, EventGenerate, true, "", map[string]string{
		"word_length":  strconv.Itoa(wordLength),
		"digit_length": strconv.Itoa(digitLength),
	})
	return res, nil
}

func (e *Engine) wrapGenerateErr(err error) error {
	switch {
	case errors.Is(err, dictionary.ErrNoDictionary):
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	case errors.Is(err, dictionary.ErrPickExhausted),
		errors.Is(err, random.ErrEntropyFailure):
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	default:
		return fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
	}
}

// Analyze scores a password and flags verbatim dictionary membership.
// The dictionary verdict consults the Redis match cache when one is
// configured; an unreachable cache silently degrades to a direct scan.
func (e *Engine) Analyze(ctx context.Context, candidate string) (AnalyzeResult, error) {
	var res AnalyzeResult
	if e.closed.Load() {
		return res, ErrEngineClosed
	}
	e.metrics.Inc(MetricAnalyzeTotal)

	hit, err := e.dictionaryHit(ctx, candidate)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
		e.emit(ctx, EventAnalyze, false, err.Error(), nil)
		return res, err
	}

	scored := strength.Score(candidate, e.config.Strength.Hints...)
	if hit {
		e.metrics.Inc(MetricDictionaryHit)
		scored.PenalizeDictionaryHit()
	}

	res = AnalyzeResult{
		Score:         scored.Score,
		Entropy:       scored.Entropy,
		DictionaryHit: scored.DictionaryHit,
		Acceptable:    scored.Score >= e.config.Strength.MinAcceptableScore,
		Warning:       scored.Warning,
		Suggestions:   scored.Suggestions,
	}
	e.emit(ctx, EventAnalyze, true, "", map[string]string{
		"score":          strconv.Itoa(res.Score),
		"dictionary_hit": strconv.FormatBool(res.DictionaryHit),
	})
	return res, nil
}

func (e *Engine) dictionaryHit(ctx context.Context, candidate string) (bool, error) {
	if e.matchCache != nil {
		hit, found, err := e.matchCache.Get(ctx, candidate)
		switch {
		case err != nil:
			e.metrics.Inc(MetricMatchCacheDegraded)
		case found:
			e.metrics.Inc(MetricMatchCacheHit)
			return hit, nil
		default:
			e.metrics.Inc(MetricMatchCacheMiss)
		}
	}

	hit, err := dictionary.ContainsLine(e.handle, candidate)
	if err != nil {
		return false, err
	}

	if e.matchCache != nil {
		// Best effort; a failed write must not fail the analysis.
		_ = e.matchCache.Put(ctx, candidate, hit)
	}
	return hit, nil
}

// Hash hashes a password under the configured scheme.
func (e *Engine) Hash(ctx context.Context, candidate string) (string, error) {
	if e.closed.Load() {
		return "", ErrEngineClosed
	}
	encoded, err := e.hasher.Hash(candidate)
	if err != nil {
		e.metrics.Inc(MetricHashFailure)
		err = fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		e.emit(ctx, EventHash, false, err.Error(), nil)
		return "", err
	}
	e.metrics.Inc(MetricHashSuccess)
	e.emit(ctx, EventHash, true, "", nil)
	return encoded, nil
}

// VerifyHash checks a password against an encoded hash produced by
// Hash. Malformed hashes surface as ErrInvalidArgument.
func (e *Engine) VerifyHash(_ context.Context, candidate, encoded string) (bool, error) {
	if e.closed.Load() {
		return false, ErrEngineClosed
	}
	ok, err := e.hasher.Verify(candidate, encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return ok, nil
}

// IssueResetToken creates a signed token for the given purpose carrying
// a fresh numeric confirmation code.
func (e *Engine) IssueResetToken(ctx context.Context, purpose string) (ResetToken, error) {
	var res ResetToken
	if e.closed.Load() {
		return res, ErrEngineClosed
	}
	if e.tokens == nil {
		return res, ErrTokensDisabled
	}

	code, err := e.sampler.Token(6, "0123456789")
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	signed, err := e.tokens.Issue(purpose, code)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	e.metrics.Inc(MetricTokenIssued)
	e.emit(ctx, EventTokenIssued, true, "", map[string]string{"purpose": purpose})
	return ResetToken{Token: signed, Code: code}, nil
}

// VerifyResetToken validates a token issued by this engine.
func (e *Engine) VerifyResetToken(_ context.Context, signed string) (*token.Claims, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	if e.tokens == nil {
		return nil, ErrTokensDisabled
	}
	return e.tokens.Verify(signed)
}

// ReloadDictionary re-reads the wordlist into the handle's cache and
// purges cached match verdicts. Only meaningful with caching enabled;
// must not race with in-flight Analyze or Generate calls.
func (e *Engine) ReloadDictionary(ctx context.Context) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if _, err := e.handle.LoadCache(); err != nil {
		if errors.Is(err, dictionary.ErrNoDictionary) {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
	}
	if e.matchCache != nil {
		_ = e.matchCache.Purge(ctx)
	}
	e.emit(ctx, EventCacheReload, true, "", nil)
	return nil
}

// InvalidateDictionaryCache drops the cached wordlist; the next cached
// operation re-reads the file exactly once.
func (e *Engine) InvalidateDictionaryCache() {
	e.handle.InvalidateCache()
}

// MetricsSnapshot copies the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped reports events shed by a full audit queue.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

func (e *Engine) emit(ctx context.Context, eventType string, success bool, errMsg string, metadata map[string]string) {
	emitWith(ctx, e.audit, eventType, success, errMsg, metadata)
}

func emitEvent(d *auditDispatcher, eventType string, success bool, errMsg string, metadata map[string]string) {
	emitWith(context.Background(), d, eventType, success, errMsg, metadata)
}

func emitWith(ctx context.Context, d *auditDispatcher, eventType string, success bool, errMsg string, metadata map[string]string) {
	if d == nil {
		return
	}
	d.Emit(ctx, AuditEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Success:   success,
		Error:     errMsg,
		Metadata:  metadata,
	})
}


