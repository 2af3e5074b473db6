package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
	"github.com/invoicebuild/invoicebuild/internal/config"
)

// PyroscopeMiddleware labels profiling samples with the matched route. Path
// parameters are left out to keep label cardinality low.
func PyroscopeMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Pyroscope.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		labels := pyroscope.Labels(
			"method", c.Request.Method,
			"endpoint", c.FullPath(),
		)
		pyroscope.TagWrapper(context.Background(), labels, func(ctx context.Context) {
			c.Next()
		})
	}
}
