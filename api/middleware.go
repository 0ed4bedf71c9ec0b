package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/killallgit/minewatch-api/api/types"
	apperrors "github.com/killallgit/minewatch-api/pkg/errors"
)

// Idle client limiters are dropped after this long
const limiterIdle = 10 * time.Minute

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestSizeLimit caps request bodies. Uploads pass their own larger ceiling.
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			if c.Request.ContentLength > maxBytes {
				err := apperrors.PayloadTooLarge(c.Request.ContentLength, maxBytes)
				c.AbortWithStatusJSON(err.GetHTTPCode(), types.ErrorResponse{Error: err.Message, Code: string(err.Code)})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestLogger logs each request through zap. A nil logger disables it.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Info("HTTP request", fields...)
		default:
			logger.Debug("HTTP request", fields...)
		}
	}
}

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiters tracks one token bucket per (route group, client IP)
type RateLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	stop    chan struct{}
	once    sync.Once
}

// NewRateLimiters starts the idle-limiter sweeper; Close stops it
func NewRateLimiters() *RateLimiters {
	rl := &RateLimiters{
		clients: make(map[string]*clientLimiter),
		stop:    make(chan struct{}),
	}
	go rl.sweep(5 * time.Minute)
	return rl
}

// Close stops the sweeper
func (rl *RateLimiters) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiters) get(key string, rps, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

// Middleware limits requests in group per client. rps <= 0 disables it.
func (rl *RateLimiters) Middleware(group string, rps, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rps <= 0 {
			c.Next()
			return
		}
		if burst <= 0 {
			burst = rps
		}
		if !rl.get(group+"|"+c.ClientIP(), rps, burst).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Error: "Rate limit exceeded. Please slow down your requests.",
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiters) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.prune(time.Now())
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiters) prune(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > limiterIdle {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiters) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}
