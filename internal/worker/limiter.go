package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces classification throughput per configuration. Ablation
// studies run several configurations over the same corpus; pacing each
// independently keeps per-configuration latency measurements
// comparable.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with the given steady rate and burst
func NewLimiter(samplesPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(samplesPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the named configuration may classify another sample
func (l *Limiter) Wait(ctx context.Context, configName string) error {
	return l.getLimiter(configName).Wait(ctx)
}

// Allow reports whether a sample may proceed without waiting
func (l *Limiter) Allow(configName string) bool {
	return l.getLimiter(configName).Allow()
}

func (l *Limiter) getLimiter(configName string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[configName]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[configName]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[configName] = limiter
	return limiter
}
