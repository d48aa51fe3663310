/*
Package limiter provides outbound rate limiting keyed by remote host.

It utilizes the Token Bucket algorithm (rate.Limiter) to pace requests to each remote
host, so a large classification run stays under the store endpoint's request budget
instead of being answered with throttled responses.
*/
package limiter

import (
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"commongames/internal/pkg/logx"
)

// HostRateLimiter paces outbound requests per remote host.
type HostRateLimiter struct {
	// mu is used to protect concurrent access to the limits map.
	mu *sync.RWMutex

	// limits stores the map from host name to the *rate.Limiter instance.
	limits map[string]*rate.Limiter

	// r is the rate applied to hosts without an explicit limit.
	r rate.Limit

	// b is the burst size applied to hosts without an explicit limit.
	b int
}

// NewHostRateLimiter creates and returns a new HostRateLimiter instance.
// r and b are the defaults for hosts that have no explicit limit; use rate.Inf to leave them unthrottled.
func NewHostRateLimiter(r rate.Limit, b int) *HostRateLimiter {
	return &HostRateLimiter{
		mu:     &sync.RWMutex{},
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}
}

// SetLimit installs an explicit rate and burst for host, replacing any existing limiter.
func (h *HostRateLimiter) SetLimit(host string, r rate.Limit, b int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.limits[strings.ToLower(host)] = rate.NewLimiter(r, b)
}

// GetLimiter retrieves the rate limiter corresponding to the given host.
// If the limiter for that host does not exist, a new one is created with the default rate.
// It uses a Double-Checked Locking pattern to ensure concurrent-safe creation of new limiters.
func (h *HostRateLimiter) GetLimiter(host string) *rate.Limiter {
	host = strings.ToLower(host)

	h.mu.RLock()
	limiter, exists := h.limits[host]
	h.mu.RUnlock()

	if !exists {
		h.mu.Lock()
		limiter, exists = h.limits[host]
		if !exists {
			limiter = rate.NewLimiter(h.r, h.b)
			h.limits[host] = limiter
		}
		h.mu.Unlock()
	}

	return limiter
}

// Transport returns an http.RoundTripper that blocks each request until its host's
// limiter grants a token, or the request context is done.
func (h *HostRateLimiter) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		limiter := h.GetLimiter(r.URL.Hostname())

		if limiter.Limit() != rate.Inf && limiter.Tokens() < 1 {
			logx.Debug("Waiting for outbound rate limit", "host", r.URL.Hostname())
		}

		if err := limiter.Wait(r.Context()); err != nil {
			return nil, err
		}

		return next.RoundTrip(r)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
