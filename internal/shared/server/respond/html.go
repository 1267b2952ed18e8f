package respond

import (
	"github.com/gin-gonic/gin"

	"codereview-frontend/internal/view"
)

const (
	// RequestIDKey is the gin context key holding the request ID.
	RequestIDKey = "requestId"
	// SiteKey is the gin context key holding the Site for the layout.
	SiteKey = "site"
)

// Site carries the values the layout needs on every page.
type Site struct {
	ServiceName    string
	PollIntervalMs int64
	RequestID      string
}

// HTML renders the named template. The layout fields "site" and "errors"
// are filled in when the handler did not set them.
func HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["site"]; !ok {
		data["site"] = siteFromContext(c)
	}
	if _, ok := data["errors"]; !ok {
		data["errors"] = view.FormErrors{}
	}
	c.HTML(status, name, data)
}

func siteFromContext(c *gin.Context) Site {
	var site Site
	if raw, ok := c.Get(SiteKey); ok {
		if s, ok := raw.(Site); ok {
			site = s
		}
	}
	site.RequestID = c.GetString(RequestIDKey)
	return site
}
