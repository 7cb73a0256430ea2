package acquire

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter paces outbound fetches per host. Wait blocks until a token is
// available; it never triggers an extra request.
type HostLimiter struct {
	perMinute int
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
}

// NewHostLimiter allows perMinute fetches per host; perMinute <= 0 disables pacing
func NewHostLimiter(perMinute int) *HostLimiter {
	return &HostLimiter{
		perMinute: perMinute,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Wait blocks until host may be fetched or ctx ends
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	if h == nil || h.perMinute <= 0 {
		return nil
	}
	return h.limiterFor(host).Wait(ctx)
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	host = strings.ToLower(host)

	h.mu.Lock()
	defer h.mu.Unlock()

	limiter, ok := h.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(h.perMinute)), 1)
		h.limiters[host] = limiter
	}
	return limiter
}
