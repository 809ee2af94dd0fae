package signal

import (
	"sync"

	"github.com/dkeye/liveroom/internal/core"
	"golang.org/x/time/rate"
)

// ConnRateLimiter keeps one token bucket per connection.
type ConnRateLimiter struct {
	mu       sync.Mutex
	limiters map[core.ConnID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewConnRateLimiter allows perSecond sustained events with bursts of
// burst. perSecond <= 0 disables limiting.
func NewConnRateLimiter(perSecond float64, burst int) *ConnRateLimiter {
	return &ConnRateLimiter{
		limiters: make(map[core.ConnID]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *ConnRateLimiter) Allow(id core.ConnID) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	l, ok := rl.limiters[id]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[id] = l
	}
	rl.mu.Unlock()
	return l.Allow()
}

func (rl *ConnRateLimiter) Forget(id core.ConnID) {
	rl.mu.Lock()
	delete(rl.limiters, id)
	rl.mu.Unlock()
}
