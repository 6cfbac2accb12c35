package directory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ledgerline/sessionkit/internal/session/domain"
	"github.com/ledgerline/sessionkit/pkg/slogx"
)

// RateLimitConfig defines the per-email lookup throttle parameters.
type RateLimitConfig struct {
	// LookupsPerWindow is the number of lookups allowed in the time window
	LookupsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// StrictLimit suits login credential lookups (brute force prevention):
// 5 lookups per minute per email, all available as a burst.
var StrictLimit = RateLimitConfig{
	LookupsPerWindow: 5,
	Window:           time.Minute,
	Burst:            5,
}

// limited decorates a Directory with a per-email token bucket.
type limited struct {
	inner    Directory
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

// RateLimited wraps inner so that lookups for any one email beyond the
// configured budget fail with ErrThrottled without reaching the inner
// directory.
func RateLimited(inner Directory, config RateLimitConfig) Directory {
	lookupsPerSecond := float64(config.LookupsPerWindow) / config.Window.Seconds()

	return &limited{
		inner:       inner,
		rate:        rate.Limit(lookupsPerSecond),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}
}

func (l *limited) Lookup(ctx context.Context, email string) (domain.CredentialRecord, error) {
	limiter := l.getLimiter(email)

	if !limiter.Allow() {
		slogx.FromContext(ctx).Warn("directory lookup throttled", "email", email)
		return domain.CredentialRecord{}, ErrThrottled
	}

	return l.inner.Lookup(ctx, email)
}

// getLimiter retrieves or creates a rate limiter for the given email.
func (l *limited) getLimiter(email string) *rate.Limiter {
	// Fast path: limiter already exists
	if limiter, ok := l.limiters.Load(email); ok {
		return limiter.(*rate.Limiter)
	}

	// Slow path: create new limiter
	limiter := rate.NewLimiter(l.rate, l.burst)
	actual, _ := l.limiters.LoadOrStore(email, limiter)

	// Periodic cleanup to prevent memory leak
	l.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup removes limiters that haven't been used recently so ephemeral
// emails don't accumulate forever.
func (l *limited) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Only cleanup once every 5 minutes
	if time.Since(l.lastCleanup) < 5*time.Minute {
		return
	}

	l.lastCleanup = time.Now()

	// If a limiter has a full token bucket it has been idle; drop it.
	l.limiters.Range(func(key, value any) bool {
		limiter := value.(*rate.Limiter)
		if limiter.Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}
