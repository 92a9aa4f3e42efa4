package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/clients/redis"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/http/response"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/observability"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/ctxutil"
)

// RateLimit keys callers by admin subject, falling back to client IP. A nil
// limiter disables the check.
func RateLimit(limiter redis.Limiter, metrics *observability.Metrics) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		caller := "ip:" + c.ClientIP()
		if ad := ctxutil.GetAdminData(c.Request.Context()); ad != nil && ad.Subject != "" {
			caller = "sub:" + ad.Subject
		}
		d := limiter.Allow(c.Request.Context(), caller)
		if d.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		}
		if !d.Allowed {
			metrics.IncRateLimited()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.ResetIn.Seconds()))))
			response.AbortError(c, http.StatusTooManyRequests, "rate_limited",
				fmt.Errorf("rate limit of %d requests per window exceeded", d.Limit))
			return
		}
		c.Next()
	}
}
