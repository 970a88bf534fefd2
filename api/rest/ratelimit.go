package rest

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/abcfe/avax-types/common/logger"
	"github.com/abcfe/avax-types/key/custody"
)

// request classes with their own per-second ceilings
const (
	classRead   = "read"
	classSign   = "sign"
	classEncode = "encode"
)

// RateLimitConfig rate limiting configuration
type RateLimitConfig struct {
	// Per-client token bucket
	MaxRequestsPerSecond int
	BurstSize            int
	BanDuration          time.Duration

	// Per-class ceilings, 0 means unlimited
	MaxSignsPerSecond   int
	MaxEncodesPerSecond int
}

func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		MaxRequestsPerSecond: 100,
		BurstSize:            200,
		BanDuration:          60 * time.Second,
		MaxSignsPerSecond:    50,
		MaxEncodesPerSecond:  100,
	}
}

type clientLimiter struct {
	mu sync.Mutex

	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time

	counters    map[string]*windowCounter
	bannedUntil time.Time
}

type windowCounter struct {
	count       int
	windowStart time.Time
}

// RateLimiter tracks request budgets per client host.
type RateLimiter struct {
	mu      sync.Mutex
	config  *RateLimitConfig
	clients map[string]*clientLimiter
	now     func() time.Time
}

func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	return &RateLimiter{
		config:  config,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

func (rl *RateLimiter) limiter(clientID string, now time.Time) *clientLimiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// drop idle clients on the way
	for id, cl := range rl.clients {
		cl.mu.Lock()
		stale := now.Sub(cl.lastRefill) > 10*time.Minute && now.After(cl.bannedUntil)
		cl.mu.Unlock()
		if stale && id != clientID {
			delete(rl.clients, id)
		}
	}

	if cl, ok := rl.clients[clientID]; ok {
		return cl
	}
	cl := &clientLimiter{
		tokens:     float64(rl.config.BurstSize),
		maxTokens:  float64(rl.config.BurstSize),
		refillRate: float64(rl.config.MaxRequestsPerSecond),
		lastRefill: now,
		counters:   make(map[string]*windowCounter),
	}
	rl.clients[clientID] = cl
	return cl
}

// Allow reports whether the client may issue a request of the class.
// Exhausting the bucket bans the client for BanDuration.
func (rl *RateLimiter) Allow(clientID, class string) (bool, string) {
	now := rl.now()
	cl := rl.limiter(clientID, now)
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if now.Before(cl.bannedUntil) {
		return false, "client is temporarily banned"
	}

	cl.tokens += now.Sub(cl.lastRefill).Seconds() * cl.refillRate
	if cl.tokens > cl.maxTokens {
		cl.tokens = cl.maxTokens
	}
	cl.lastRefill = now

	if cl.tokens < 1 {
		cl.bannedUntil = now.Add(rl.config.BanDuration)
		return false, "request rate exceeded, client banned"
	}

	if limit := rl.classLimit(class); limit > 0 {
		c, ok := cl.counters[class]
		if !ok {
			c = &windowCounter{windowStart: now}
			cl.counters[class] = c
		}
		if now.Sub(c.windowStart) >= time.Second {
			c.count = 0
			c.windowStart = now
		}
		if c.count >= limit {
			return false, fmt.Sprintf("%s rate limit exceeded", class)
		}
		c.count++
	}

	cl.tokens--
	return true, ""
}

func (rl *RateLimiter) classLimit(class string) int {
	switch class {
	case classSign:
		return rl.config.MaxSignsPerSecond
	case classEncode:
		return rl.config.MaxEncodesPerSecond
	}
	return 0
}

func (rl *RateLimiter) IsBanned(clientID string) bool {
	rl.mu.Lock()
	cl, ok := rl.clients[clientID]
	rl.mu.Unlock()
	if !ok {
		return false
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	return rl.now().Before(cl.bannedUntil)
}

func requestClass(r *http.Request) string {
	switch r.URL.Path {
	case custody.PathSign:
		return classSign
	case "/api/v1/message/encode":
		return classEncode
	}
	return classRead
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware rejects over-budget clients with 429
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientHost(r)
			if ok, reason := rl.Allow(client, requestClass(r)); !ok {
				logger.Warn("Rate limited ", client, ": ", reason)
				sendResp(w, http.StatusTooManyRequests, nil, fmt.Errorf("%s", reason))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
