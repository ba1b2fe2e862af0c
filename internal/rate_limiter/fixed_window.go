package ratelimiter

import (
	"sync"
	"time"

	"github.com/SeakMengs/AutoActa/internal/config"
	"go.uber.org/zap"
)

type window struct {
	start time.Time
	count int
}

// FixedWindowRateLimiter counts requests per key in consecutive windows of cfg.TimeFrame.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	frame   time.Duration
	enabled bool
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		windows: make(map[string]*window),
		limit:   cfg.RequestsPerTimeFrame,
		frame:   cfg.TimeFrame,
		enabled: cfg.Enabled && cfg.RequestsPerTimeFrame > 0 && cfg.TimeFrame > 0,
		logger:  logger,
		now:     time.Now,
	}
}

func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	if !rl.enabled {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.frame {
		rl.evict(now)
		rl.windows[key] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count >= rl.limit {
		retry := rl.frame - now.Sub(w.start)
		rl.logger.Debugf("Rate limit exceeded for %s, retry after %v \n", key, retry)
		return false, retry
	}

	w.count++
	return true, 0
}

// evict drops expired windows. Caller holds mu.
func (rl *FixedWindowRateLimiter) evict(now time.Time) {
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.frame {
			delete(rl.windows, key)
		}
	}
}
