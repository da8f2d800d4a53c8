package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// defaultIdleTTL is how long a client's limiter is kept after its last request.
const defaultIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware holds the rate limiters for each client address.
type RateLimiterMiddleware struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	// Rate is the number of events per second.
	rate rate.Limit
	// Burst is the burst size.
	burst  int
	logger *logrus.Logger

	idleTTL   time.Duration
	lastPrune time.Time
	now       func() time.Time
}

// NewRateLimiterMiddleware creates a new RateLimiterMiddleware.
func NewRateLimiterMiddleware(r rate.Limit, b int, logger *logrus.Logger) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		visitors:  make(map[string]*visitor),
		rate:      r,
		burst:     b,
		logger:    logger,
		idleTTL:   defaultIdleTTL,
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

// Middleware is the actual middleware handler.
func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r)

		if !rl.allow(client) {
			rl.logger.WithFields(logrus.Fields{
				"client": client,
				"path":   r.URL.Path,
			}).Warn("Rate limit exceeded")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiterMiddleware) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) >= rl.idleTTL {
		rl.prune(now)
	}

	v, exists := rl.visitors[client]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[client] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// prune drops limiters of clients idle for longer than idleTTL. A dropped
// client starts again with a full burst. Callers hold mu.
func (rl *RateLimiterMiddleware) prune(now time.Time) {
	for client, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.idleTTL {
			delete(rl.visitors, client)
		}
	}
	rl.lastPrune = now
}

// Clients is the number of tracked client addresses.
func (rl *RateLimiterMiddleware) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
