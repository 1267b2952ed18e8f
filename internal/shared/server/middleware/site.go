package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"codereview-frontend/internal/shared/server/respond"
)

// Site stores the layout values shared by every rendered page.
func Site(serviceName string, pollInterval time.Duration) gin.HandlerFunc {
	site := respond.Site{
		ServiceName:    serviceName,
		PollIntervalMs: pollInterval.Milliseconds(),
	}
	return func(c *gin.Context) {
		c.Set(respond.SiteKey, site)
		c.Next()
	}
}
