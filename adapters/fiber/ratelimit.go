package fiber

import (
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

const (
	lookupRate  = rate.Limit(1) // sustained lookups per second per client
	lookupBurst = 5
	maxClients  = 10000
)

// tokenLimiter throttles confirmation-token lookups per client IP.
// Tokens are the only credential for verification, so unthrottled
// lookups would invite enumeration.
type tokenLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newTokenLimiter() *tokenLimiter {
	return &tokenLimiter{
		clients: make(map[string]*clientLimiter),
	}
}

func (t *tokenLimiter) allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	cl, exists := t.clients[ip]
	if !exists {
		if len(t.clients) >= maxClients {
			t.prune()
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(lookupRate, lookupBurst)}
		t.clients[ip] = cl
	}
	cl.lastSeen = time.Now()

	return cl.limiter.Allow()
}

// prune drops clients idle for more than an hour. Called with mu held.
func (t *tokenLimiter) prune() {
	cutoff := time.Now().Add(-time.Hour)
	for ip, cl := range t.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(t.clients, ip)
		}
	}
}

func (a *Adapter) rateLimit(c fiber.Ctx) error {
	if !a.limiter.allow(c.IP()) {
		return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
			"success": false,
			"error":   "too many requests",
		})
	}
	return c.Next()
}
