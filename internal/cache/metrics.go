package cache

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/trackit-app/trackit/pkg/logger"
	"github.com/trackit-app/trackit/pkg/metrics"
)

// Counters tracks per-process cache outcomes. They complement the store's own
// keyspace statistics: the store counts every key lookup it serves, while
// these count what this process asked for.
type Counters struct {
	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{}
}

// RecordHit increments the hit counter.
func (c *Counters) RecordHit() {
	if c != nil {
		c.hits.Add(1)
	}
}

// RecordMiss increments the miss counter.
func (c *Counters) RecordMiss() {
	if c != nil {
		c.misses.Add(1)
	}
}

// RecordFailure increments the failure counter.
func (c *Counters) RecordFailure() {
	if c != nil {
		c.failures.Add(1)
	}
}

// CounterSnapshot is a point-in-time copy of the process-local counters.
type CounterSnapshot struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Failures int64 `json:"failures"`
}

// HitRatio returns hits/(hits+misses), or 0 when no lookups were recorded.
// Failures are excluded because they say nothing about cache residency.
func (s CounterSnapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() CounterSnapshot {
	if c == nil {
		return CounterSnapshot{}
	}
	return CounterSnapshot{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Failures: c.failures.Load(),
	}
}

// Reset zeroes all counters.
func (c *Counters) Reset() {
	if c == nil {
		return
	}
	c.hits.Store(0)
	c.misses.Store(0)
	c.failures.Store(0)
}

// StatsCollector periodically scrapes the backing store's statistics into the
// Prometheus gauges.
type StatsCollector struct {
	service  *Service
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	log      *zap.Logger
}

// NewStatsCollector builds a collector for the given service. A non-positive
// interval defaults to 30 seconds.
func NewStatsCollector(service *Service, interval time.Duration) *StatsCollector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StatsCollector{
		service:  service,
		interval: interval,
		log:      logger.WithModule("cache.stats"),
	}
}

// Start launches the scrape loop. It is a no-op when the service has no store.
func (c *StatsCollector) Start(ctx context.Context) {
	if c == nil || !c.service.Enabled() {
		return
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.scrape(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.scrape(ctx)
			}
		}
	}()
}

// Stop halts the scrape loop and waits for it to exit.
func (c *StatsCollector) Stop() {
	if c == nil || c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

func (c *StatsCollector) scrape(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stats, err := c.service.Stats(ctx)
	if err != nil {
		c.log.Warn("cache stats scrape failed", zap.Error(err))
		return
	}

	metrics.CacheKeys.Set(float64(stats.Keys))
	metrics.CacheMemoryBytes.Set(float64(stats.MemoryBytes))
	metrics.CacheKeyspaceHitRatio.Set(stats.HitRatio())
}
