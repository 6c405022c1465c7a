package passforge

import "sync/atomic"

// MetricID indexes the engine's counters.
type MetricID uint16

const (
	// MetricGenerateSuccess counts completed Generate calls.
	MetricGenerateSuccess MetricID = iota
	// MetricGenerateFailure counts Generate calls that returned an error.
	MetricGenerateFailure
	// MetricAnalyzeTotal counts Analyze calls.
	MetricAnalyzeTotal
	// MetricDictionaryHit counts analyzed passwords found in the wordlist.
	MetricDictionaryHit
	// MetricMatchCacheHit counts verdicts answered from the Redis cache.
	MetricMatchCacheHit
	// MetricMatchCacheMiss counts cache misses that fell through to a scan.
	MetricMatchCacheMiss
	// MetricMatchCacheDegraded counts cache lookups skipped because Redis
	// was unreachable.
	MetricMatchCacheDegraded
	// MetricHashSuccess counts completed Hash calls.
	MetricHashSuccess
	// MetricHashFailure counts Hash calls that returned an error.
	MetricHashFailure
	// MetricTokenIssued counts issued reset/delivery tokens.
	MetricTokenIssued
	// MetricInsecureEntropy counts engines built on the math/rand
	// fallback tier. Nonzero in production is an incident.
	MetricInsecureEntropy
	// MetricPickExhausted counts picker rejection loops that hit their
	// retry budget.
	MetricPickExhausted

	metricIDCount
)

const cacheLineSize = 64

// paddedCounter keeps hot counters on separate cache lines.
type paddedCounter struct {
	value atomic.Uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of atomic counters. A nil or disabled Metrics
// absorbs increments without recording.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics returns a counter set honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc adds one to the counter when metrics are enabled.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].value.Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the counters. Disabled metrics snapshot as empty.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].value.Load()
	}
	return snap
}
