package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiters stores a rate limiter per client address.
type clientLimiters struct {
	mu      sync.RWMutex
	clients map[string]*rate.Limiter
	r       rate.Limit
	b       int
}

func newClientLimiters(r rate.Limit, b int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}
}

// limiter returns the rate limiter for a client, creating it on first use.
func (cl *clientLimiters) limiter(addr string) *rate.Limiter {
	cl.mu.RLock()
	lim, ok := cl.clients[addr]
	cl.mu.RUnlock()
	if ok {
		return lim
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if lim, ok := cl.clients[addr]; ok {
		return lim
	}
	lim = rate.NewLimiter(cl.r, cl.b)
	cl.clients[addr] = lim
	return lim
}

// RateLimiter is a middleware for per-client rate limiting. When
// ipHeader is non-empty the client address is taken from that header
// (for deployments behind a proxy), otherwise from the connection.
func RateLimiter(r rate.Limit, b int, ipHeader string) gin.HandlerFunc {
	limiters := newClientLimiters(r, b)
	return func(c *gin.Context) {
		addr := ""
		if ipHeader != "" {
			addr = c.GetHeader(ipHeader)
		}
		if addr == "" {
			addr = c.ClientIP()
		}
		if !limiters.limiter(addr).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
