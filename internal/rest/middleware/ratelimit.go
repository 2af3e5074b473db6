package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicebuild/invoicebuild/internal/config"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/types"
	goCache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdle is how long the limiter of a silent caller is kept
const limiterIdle = 10 * time.Minute

// RateLimitMiddleware gives every caller a token bucket. It must run after
// AccountMiddleware so calls are keyed by the verified account.
func RateLimitMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	rl := cfg.Server.RateLimit
	if !rl.Enabled || rl.RequestsPerSecond <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limiters := goCache.New(limiterIdle, 2*limiterIdle)
	burst := rl.Burst
	if burst < 1 {
		burst = 1
	}

	return func(c *gin.Context) {
		key := types.GetAccount(c.Request.Context())
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		var limiter *rate.Limiter
		if v, ok := limiters.Get(key); ok {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), burst)
			// a concurrent first request may have stored one already
			if err := limiters.Add(key, limiter, goCache.DefaultExpiration); err != nil {
				if v, ok := limiters.Get(key); ok {
					limiter = v.(*rate.Limiter)
				}
			}
		}
		// sliding expiry, active callers keep their bucket
		limiters.SetDefault(key, limiter)

		if !limiter.Allow() {
			c.Error(ierr.NewError("rate limit exceeded").
				WithHint("Too many requests, slow down and retry").
				WithReportableDetails(map[string]any{"limit_per_second": rl.RequestsPerSecond}).
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}
		c.Next()
	}
}
