package server

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"codereview-frontend/internal/codereviews"
	"codereview-frontend/internal/services/health"
	"codereview-frontend/internal/shared/config"
	"codereview-frontend/internal/shared/metrics"
	"codereview-frontend/internal/shared/server/middleware"
	"codereview-frontend/internal/shared/server/respond"
	"codereview-frontend/internal/shared/telemetry"
	"codereview-frontend/internal/standards"
)

// RouterDeps groups handler dependencies for router construction.
type RouterDeps struct {
	Config             config.Config
	Templates          *template.Template
	Public             fs.FS
	Health             *health.Service
	CodeReviewsHandler *codereviews.Handler
	StandardsHandler   *standards.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		telemetry.Error("server.trusted_proxies_invalid", map[string]any{
			"trusted_proxies": deps.Config.TrustedProxies,
			"error":           err,
		})
		_ = r.SetTrustedProxies(nil)
	}
	r.SetHTMLTemplate(deps.Templates)

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Site(deps.Config.ServiceName, deps.Config.StatusPollInterval),
		middleware.Recovery(),
	)

	if deps.Public != nil {
		r.StaticFS("/public", http.FS(deps.Public))
	}
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(deps.Config.ServiceName)
	}
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())

	if deps.CodeReviewsHandler != nil {
		deps.CodeReviewsHandler.RegisterRoutes(&r.RouterGroup)
	}
	if deps.StandardsHandler != nil {
		deps.StandardsHandler.RegisterRoutes(&r.RouterGroup)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.NotFound(c, respond.DefaultNotFound)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
