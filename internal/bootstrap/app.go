package bootstrap

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"codereview-frontend/internal/apiclient"
	"codereview-frontend/internal/codereviews"
	"codereview-frontend/internal/services/health"
	"codereview-frontend/internal/shared/config"
	"codereview-frontend/internal/shared/server"
	"codereview-frontend/internal/shared/server/middleware"
	"codereview-frontend/internal/standards"
	"codereview-frontend/internal/web"
)

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	API                *apiclient.Client
	Health             *health.Service
	CodeReviewsHandler *codereviews.Handler
	StandardsHandler   *standards.Handler
}

// Build prepares the API client, handlers and router from cfg.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	api, err := BuildAPIClient(cfg)
	if err != nil {
		return nil, err
	}
	return BuildWithAPI(cfg, api)
}

// BuildAPIClient constructs the upstream client from cfg.
func BuildAPIClient(cfg config.Config) (*apiclient.Client, error) {
	api, err := apiclient.NewClient(apiclient.Config{
		BaseURL:      cfg.APIBaseURL,
		Timeout:      cfg.APITimeout,
		ClientID:     cfg.APIClientID,
		ClientSecret: cfg.APIClientSecret,
		TokenURL:     cfg.APITokenURL,
		Scopes:       cfg.APIScopes,
	})
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	return api, nil
}

// BuildWithAPI wires handlers and the router around an existing client.
func BuildWithAPI(cfg config.Config, api *apiclient.Client) (*App, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	public, err := web.Public()
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	statusLimit := middleware.RateLimit(middleware.RateLimitRule{
		Rate:  cfg.StatusRateLimit,
		Burst: cfg.StatusRateBurst,
	}, middleware.NewRateLimiter(nil))

	app := &App{
		Config:             cfg,
		API:                api,
		Health:             health.NewService(cfg.ServiceName),
		CodeReviewsHandler: codereviews.NewHandler(api, statusLimit),
		StandardsHandler:   standards.NewHandler(api),
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Templates:          tmpl,
		Public:             public,
		Health:             app.Health,
		CodeReviewsHandler: app.CodeReviewsHandler,
		StandardsHandler:   app.StandardsHandler,
	})
	return app, nil
}
