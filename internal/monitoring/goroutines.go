package monitoring

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// GoroutineMonitor samples the goroutine count of the process and keeps
// the counts components report about themselves, such as the session
// tickers of the game server
type GoroutineMonitor struct {
	mu              sync.RWMutex
	baseline        int
	current         int
	peak            int
	checkInterval   time.Duration
	alertThreshold  int
	lastAlert       time.Time
	alertCooldown   time.Duration
	componentCounts map[string]int
	count           func() int
	logger          zerolog.Logger
}

// Option configures a GoroutineMonitor
type Option func(*GoroutineMonitor)

// WithCheckInterval sets how often the goroutine count is sampled
func WithCheckInterval(d time.Duration) Option {
	return func(gm *GoroutineMonitor) { gm.checkInterval = d }
}

// WithAlertThreshold sets the goroutine count that triggers a warning
func WithAlertThreshold(n int) Option {
	return func(gm *GoroutineMonitor) { gm.alertThreshold = n }
}

// NewGoroutineMonitor creates a new goroutine monitor
func NewGoroutineMonitor(logger zerolog.Logger, opts ...Option) *GoroutineMonitor {
	gm := &GoroutineMonitor{
		checkInterval:   30 * time.Second,
		alertThreshold:  1000,
		alertCooldown:   5 * time.Minute,
		componentCounts: make(map[string]int),
		count:           runtime.NumGoroutine,
		logger:          logger.With().Str("component", "goroutine_monitor").Logger(),
	}
	for _, opt := range opts {
		opt(gm)
	}
	gm.baseline = gm.count()
	gm.current = gm.baseline
	gm.peak = gm.baseline
	return gm
}

// Start samples until ctx is cancelled
func (gm *GoroutineMonitor) Start(ctx context.Context) {
	gm.logger.Info().
		Int("baseline", gm.baseline).
		Dur("interval", gm.checkInterval).
		Msg("Started goroutine monitoring")
	go gm.monitor(ctx)
}

func (gm *GoroutineMonitor) monitor(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			gm.logger.Error().
				Interface("panic", r).
				Msg("Goroutine monitor panicked")
		}
	}()

	ticker := time.NewTicker(gm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			gm.checkGoroutines(now)
		case <-ctx.Done():
			return
		}
	}
}

// checkGoroutines samples the count and reports whether it alerted
func (gm *GoroutineMonitor) checkGoroutines(now time.Time) bool {
	current := gm.count()

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}
	growth := current - gm.baseline
	shouldAlert := current > gm.alertThreshold && now.Sub(gm.lastAlert) > gm.alertCooldown
	if shouldAlert {
		gm.lastAlert = now
	}
	components := copyMap(gm.componentCounts)
	gm.mu.Unlock()

	gm.logger.Debug().
		Int("current", current).
		Int("baseline", gm.baseline).
		Int("growth", growth).
		Interface("components", components).
		Msg("Goroutine metrics")

	if shouldAlert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.alertThreshold).
			Interface("components", components).
			Msg("High goroutine count detected - possible leak")
	}
	return shouldAlert
}

// RegisterComponent records the goroutines a component owns
func (gm *GoroutineMonitor) RegisterComponent(name string, count int) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.componentCounts[name] = count
}

// GetMetrics returns current goroutine metrics
func (gm *GoroutineMonitor) GetMetrics() GoroutineMetrics {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return GoroutineMetrics{
		Current:         gm.current,
		Baseline:        gm.baseline,
		Peak:            gm.peak,
		Growth:          gm.current - gm.baseline,
		ComponentCounts: copyMap(gm.componentCounts),
	}
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current         int            `json:"current"`
	Baseline        int            `json:"baseline"`
	Peak            int            `json:"peak"`
	Growth          int            `json:"growth"`
	ComponentCounts map[string]int `json:"component_counts"`
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
