package passforge

import (
	"sync"
	"testing"
)

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricGenerateSuccess)
	m.Inc(MetricGenerateSuccess)
	m.Inc(MetricDictionaryHit)

	snap := m.Snapshot()
	if got := snap.Counters[MetricGenerateSuccess]; got != 2 {
		t.Fatalf("generate success = %d, want 2", got)
	}
	if got := snap.Counters[MetricDictionaryHit]; got != 1 {
		t.Fatalf("dictionary hit = %d, want 1", got)
	}
	if got := snap.Counters[MetricHashFailure]; got != 0 {
		t.Fatalf("untouched counter = %d, want 0", got)
	}
}

func TestMetricsDisabledAbsorbsIncrements(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricAnalyzeTotal)
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatalf("disabled snapshot has %d counters, want 0", len(snap.Counters))
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricHashSuccess)
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatal("nil metrics snapshot must be empty")
	}
}

func TestMetricsOutOfRangeID(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(metricIDCount)
	m.Inc(metricIDCount + 100)
	snap := m.Snapshot()
	for id, v := range snap.Counters {
		if v != 0 {
			t.Fatalf("counter %d = %d after out-of-range increments", id, v)
		}
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				m.Inc(MetricAnalyzeTotal)
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot().Counters[MetricAnalyzeTotal]; got != workers*perWorker {
		t.Fatalf("analyze total = %d, want %d", got, workers*perWorker)
	}
}
