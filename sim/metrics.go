package sim

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Histogram tracks run-duration distribution with percentile support
type Histogram struct {
	samples []float64 // Durations in microseconds
	mu      sync.Mutex
	maxSize int // Maximum samples to retain
}

// NewHistogram creates a new histogram with a max sample size
func NewHistogram(maxSize int) *Histogram {
	if maxSize <= 0 {
		maxSize = 10000 // Default: keep last 10k samples
	}
	return &Histogram{
		samples: make([]float64, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record adds a duration sample (in microseconds)
func (h *Histogram) Record(durationUs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// If at capacity, drop the oldest sample
	if len(h.samples) >= h.maxSize {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:len(h.samples)-1]
	}

	h.samples = append(h.samples, durationUs)
}

// sortedCopy returns the samples sorted, for percentile math
func (h *Histogram) sortedCopy() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]float64, len(h.samples))
	copy(out, h.samples)
	sort.Float64s(out)
	return out
}

// Percentile calculates the given percentile (0-100)
func (h *Histogram) Percentile(p float64) float64 {
	samples := h.sortedCopy()
	if len(samples) == 0 {
		return 0
	}

	rank := (p / 100.0) * float64(len(samples)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper {
		return samples[lower]
	}

	// Linear interpolation between lower and upper
	weight := rank - float64(lower)
	return samples[lower]*(1-weight) + samples[upper]*weight
}

// Mean calculates the average duration
func (h *Histogram) Mean() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range h.samples {
		sum += v
	}
	return sum / float64(len(h.samples))
}

// Count returns the number of samples
func (h *Histogram) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples)
}

// Reset clears all samples
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
}

// HistogramSnapshot holds current percentile statistics
type HistogramSnapshot struct {
	Count int
	Mean  float64
	P50   float64
	P95   float64
	P99   float64
}

// Snapshot captures current histogram statistics
func (h *Histogram) Snapshot() HistogramSnapshot {
	return HistogramSnapshot{
		Count: h.Count(),
		Mean:  h.Mean(),
		P50:   h.Percentile(50),
		P95:   h.Percentile(95),
		P99:   h.Percentile(99),
	}
}

// Metrics tracks simulator performance counters. One instance may be shared
// across parallel batch runs: counters are atomic and the histogram guards
// itself, so engines only ever append.
type Metrics struct {
	// Per-reference counters
	hits       atomic.Uint64
	faults     atomic.Uint64
	evictions  atomic.Uint64
	writebacks atomic.Uint64

	// Per-run counters
	runsCompleted atomic.Uint64
	runsFailed    atomic.Uint64

	// Run duration distribution (microseconds)
	runDuration *Histogram

	startTime time.Time
	mu        sync.RWMutex
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		startTime:   time.Now(),
		runDuration: NewHistogram(10000),
	}
}

func (m *Metrics) RecordHit() {
	m.hits.Add(1)
}

func (m *Metrics) RecordFault() {
	m.faults.Add(1)
}

func (m *Metrics) RecordEviction() {
	m.evictions.Add(1)
}

func (m *Metrics) RecordWriteback() {
	m.writebacks.Add(1)
}

func (m *Metrics) RecordRunCompleted(duration time.Duration) {
	m.runsCompleted.Add(1)
	m.runDuration.Record(float64(duration.Microseconds()))
}

func (m *Metrics) RecordRunFailed() {
	m.runsFailed.Add(1)
}

// Getters

func (m *Metrics) GetHits() uint64 {
	return m.hits.Load()
}

func (m *Metrics) GetFaults() uint64 {
	return m.faults.Load()
}

func (m *Metrics) GetFaultRate() float64 {
	hits := m.hits.Load()
	faults := m.faults.Load()
	total := hits + faults
	if total == 0 {
		return 0.0
	}
	return float64(faults) / float64(total)
}

func (m *Metrics) GetEvictions() uint64 {
	return m.evictions.Load()
}

func (m *Metrics) GetWritebacks() uint64 {
	return m.writebacks.Load()
}

func (m *Metrics) GetRunsCompleted() uint64 {
	return m.runsCompleted.Load()
}

func (m *Metrics) GetRunsFailed() uint64 {
	return m.runsFailed.Load()
}

func (m *Metrics) GetUptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.startTime)
}

// GetRunDuration returns a snapshot of the run duration distribution
func (m *Metrics) GetRunDuration() HistogramSnapshot {
	return m.runDuration.Snapshot()
}

// LogMetrics logs all metrics using structured logging
func (m *Metrics) LogMetrics(logger *slog.Logger) {
	runDuration := m.GetRunDuration()

	logger.Info("Simulation Metrics",
		slog.Group("references",
			slog.Uint64("hits", m.GetHits()),
			slog.Uint64("faults", m.GetFaults()),
			slog.Float64("fault_rate", m.GetFaultRate()),
			slog.Uint64("evictions", m.GetEvictions()),
			slog.Uint64("writebacks", m.GetWritebacks()),
		),
		slog.Group("runs",
			slog.Uint64("completed", m.GetRunsCompleted()),
			slog.Uint64("failed", m.GetRunsFailed()),
		),
		slog.Group("run_duration_us",
			slog.Int("count", runDuration.Count),
			slog.Float64("mean", runDuration.Mean),
			slog.Float64("p50", runDuration.P50),
			slog.Float64("p95", runDuration.P95),
			slog.Float64("p99", runDuration.P99),
		),
		slog.Duration("uptime", m.GetUptime()),
	)
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	m.hits.Store(0)
	m.faults.Store(0)
	m.evictions.Store(0)
	m.writebacks.Store(0)
	m.runsCompleted.Store(0)
	m.runsFailed.Store(0)

	m.runDuration.Reset()

	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}
