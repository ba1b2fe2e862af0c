package ratelimiter

import (
	"time"

	"github.com/SeakMengs/AutoActa/internal/config"
	"go.uber.org/zap"
)

type Limiter interface {
	// Allow reports whether key may make another request, and how long to wait otherwise.
	Allow(key string) (bool, time.Duration)
}

func NewRateLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	// For unit test
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return NewFixedWindowLimiter(cfg, logger)
}
