package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// MaxRateLimitClients bounds how many client token buckets are kept. The
// least recently seen client is dropped first.
const MaxRateLimitClients = 10000

// RateLimit throttles each client through its own token bucket refilled at
// rps with room for burst. Clients are keyed by X-Account-ID when it holds a
// UUID and by remote IP otherwise. Rejected requests get 429 and a
// Retry-After hint.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiters := newClientLimiters(rps, burst, MaxRateLimitClients)

	return func(c *gin.Context) {
		if !limiters.get(clientKey(c)).Allow() {
			retry := int(math.Ceil(1 / rps))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			abort(c, http.StatusTooManyRequests, CodeTooManyRequests, "Too many requests, retry later")
			return
		}
		c.Next()
	}
}

// clientKey runs ahead of Account, so the header is parsed here without
// rejecting anything.
func clientKey(c *gin.Context) string {
	if id, err := uuid.Parse(c.GetHeader(AccountIDHeader)); err == nil {
		return "account:" + id.String()
	}
	return "ip:" + c.ClientIP()
}

type clientLimiters struct {
	rps   rate.Limit
	burst int
	cache *lru.Cache[string, *rate.Limiter]
}

func newClientLimiters(rps float64, burst, size int) *clientLimiters {
	cache, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		panic(fmt.Sprintf("middleware: rate limiter cache: %v", err))
	}
	return &clientLimiters{rps: rate.Limit(rps), burst: burst, cache: cache}
}

// get returns the bucket for key, creating it on first sight.
func (l *clientLimiters) get(key string) *rate.Limiter {
	if limiter, ok := l.cache.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.rps, l.burst)
	if prev, ok, _ := l.cache.PeekOrAdd(key, limiter); ok {
		return prev
	}
	return limiter
}
