package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics holds the watermark pipeline counters.
// Thread-safe via atomics and mutex.
type Metrics struct {
	TotalJobs      int64 `json:"total_jobs"`
	ActiveJobs     int64 `json:"active_jobs"`
	FailedJobs     int64 `json:"failed_jobs"`
	TimedOutJobs   int64 `json:"timed_out_jobs"`
	TotalLatencyMs int64 `json:"total_latency_ms"`
	MaxLatencyMs   int64 `json:"max_latency_ms"`

	StartTime     time.Time        `json:"start_time"`
	OutcomeCounts map[string]int64 `json:"outcome_counts"`
	mu            sync.Mutex
}

func New() *Metrics {
	return &Metrics{
		StartTime:     time.Now(),
		OutcomeCounts: make(map[string]int64),
	}
}

// JobStarted marks a pipeline run as in flight.
func (m *Metrics) JobStarted() {
	atomic.AddInt64(&m.ActiveJobs, 1)
}

// JobFinished records the outcome and latency of a completed run.
// Outcome is a short label such as "ok", "invalid_config", or "timeout".
func (m *Metrics) JobFinished(outcome string, latency time.Duration) {
	latencyMs := latency.Milliseconds()

	atomic.AddInt64(&m.ActiveJobs, -1)
	atomic.AddInt64(&m.TotalJobs, 1)
	atomic.AddInt64(&m.TotalLatencyMs, latencyMs)

	if outcome != OutcomeOK {
		atomic.AddInt64(&m.FailedJobs, 1)
	}
	if outcome == OutcomeTimeout {
		atomic.AddInt64(&m.TimedOutJobs, 1)
	}

	// Update max latency (lock-free CAS loop)
	for {
		current := atomic.LoadInt64(&m.MaxLatencyMs)
		if latencyMs <= current {
			break
		}
		if atomic.CompareAndSwapInt64(&m.MaxLatencyMs, current, latencyMs) {
			break
		}
	}

	m.mu.Lock()
	m.OutcomeCounts[outcome]++
	m.mu.Unlock()
}

// Outcome labels recorded by the pipeline.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidConfig = "invalid_config"
	OutcomeNotFound      = "asset_not_found"
	OutcomeTooLarge      = "file_size_exceeded"
	OutcomeTimeout       = "timeout"
	OutcomeFailed        = "failed"
)

// Snapshot is a point-in-time view of the pipeline counters.
type Snapshot struct {
	TotalJobs     int64            `json:"total_jobs"`
	ActiveJobs    int64            `json:"active_jobs"`
	FailedJobs    int64            `json:"failed_jobs"`
	TimedOutJobs  int64            `json:"timed_out_jobs"`
	FailureRate   float64          `json:"failure_rate_pct"`
	AvgLatencyMs  float64          `json:"avg_latency_ms"`
	MaxLatencyMs  int64            `json:"max_latency_ms"`
	JobsPerSec    float64          `json:"jobs_per_sec"`
	UptimeSeconds float64          `json:"uptime_seconds"`
	OutcomeCounts map[string]int64 `json:"outcome_counts"`
}

func (m *Metrics) snapshot() Snapshot {
	total := atomic.LoadInt64(&m.TotalJobs)
	failed := atomic.LoadInt64(&m.FailedJobs)
	totalLatency := atomic.LoadInt64(&m.TotalLatencyMs)
	uptime := time.Since(m.StartTime).Seconds()

	var avgLatency float64
	if total > 0 {
		avgLatency = float64(totalLatency) / float64(total)
	}

	var failureRate float64
	if total > 0 {
		failureRate = float64(failed) / float64(total) * 100
	}

	m.mu.Lock()
	outcomes := make(map[string]int64, len(m.OutcomeCounts))
	for k, v := range m.OutcomeCounts {
		outcomes[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		TotalJobs:     total,
		ActiveJobs:    atomic.LoadInt64(&m.ActiveJobs),
		FailedJobs:    failed,
		TimedOutJobs:  atomic.LoadInt64(&m.TimedOutJobs),
		FailureRate:   failureRate,
		AvgLatencyMs:  avgLatency,
		MaxLatencyMs:  atomic.LoadInt64(&m.MaxLatencyMs),
		JobsPerSec:    float64(total) / uptime,
		UptimeSeconds: uptime,
		OutcomeCounts: outcomes,
	}
}

// RegisterRoutes adds the /metrics/watermarks snapshot endpoint and a
// reset endpoint useful between load-test runs.
func (m *Metrics) RegisterRoutes(e *echo.Echo) {
	e.GET("/metrics/watermarks", func(c echo.Context) error {
		return c.JSON(http.StatusOK, m.snapshot())
	})

	e.POST("/metrics/reset", func(c echo.Context) error {
		atomic.StoreInt64(&m.TotalJobs, 0)
		atomic.StoreInt64(&m.ActiveJobs, 0)
		atomic.StoreInt64(&m.FailedJobs, 0)
		atomic.StoreInt64(&m.TimedOutJobs, 0)
		atomic.StoreInt64(&m.TotalLatencyMs, 0)
		atomic.StoreInt64(&m.MaxLatencyMs, 0)
		m.mu.Lock()
		m.OutcomeCounts = make(map[string]int64)
		m.StartTime = time.Now()
		m.mu.Unlock()
		return c.JSON(http.StatusOK, map[string]string{"status": "metrics_reset"})
	})
}
