package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"learner-portal/internal/auth"
	authhandler "learner-portal/internal/auth/handler"
	"learner-portal/internal/auth/credentials"
	"learner-portal/internal/auth/local"
	"learner-portal/internal/auth/provider"
	"learner-portal/internal/auth/provider/oidc"
	"learner-portal/internal/auth/resolver"
	"learner-portal/internal/auth/supabase"
	"learner-portal/internal/config"
	"learner-portal/internal/cookie"
	"learner-portal/internal/landing"
	"learner-portal/internal/learner"
	learnerhandler "learner-portal/internal/learner/handler"
	"learner-portal/internal/llm"
	"learner-portal/internal/logger"
	"learner-portal/internal/middleware"
	"learner-portal/internal/session"
)

// routerDeps is everything the router needs, already constructed.
type routerDeps struct {
	serviceName  string
	imageDomains []string
	cookies      cookie.Options

	backend  auth.Backend
	auth     *authhandler.Handler
	learners learnerhandler.Repository
	limiter  *middleware.RateLimiter

	// assistant is nil when no LLM is configured.
	assistant llm.Completer
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	cookies := cookie.Options{Secure: cfg.CookieSecure}

	backend, authHandler, err := setupAuth(ctx, cfg, infra, cookies)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	deps := routerDeps{
		serviceName:  cfg.Telemetry.ServiceName,
		imageDomains: cfg.ImageDomains,
		cookies:      cookies,
		backend:      backend,
		auth:         authHandler,
		learners:     learner.NewRepository(infra.DB),
		limiter:      middleware.NewRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst),
	}

	if cfg.LLM.Enabled() {
		deps.assistant = llm.New(llm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	}

	done := make(chan struct{})
	go deps.limiter.Run(done)

	router := newRouter(deps)

	return router, func() error {
		close(done)
		return infra.Close()
	}, nil
}

func setupAuth(ctx context.Context, cfg config.Config, infra *Infra, cookies cookie.Options) (auth.Backend, *authhandler.Handler, error) {
	switch cfg.AuthBackend {
	case config.BackendSupabase:
		if cfg.OIDC.Enabled() {
			logger.Warn("OIDC login is ignored with the supabase auth backend", nil)
		}
		backend := supabase.NewBackend(
			supabase.NewGoTrue(cfg.Supabase.URL, cfg.Supabase.AnonKey),
			cfg.Supabase.JWTSecret,
		)
		return backend, authhandler.NewHandler(backend, cookies), nil

	case config.BackendLocal:
		backend := local.NewBackend(
			credentials.NewService(infra.DB),
			session.NewRedisStore(infra.Redis.Client),
			cfg.SessionTTL,
		)
		h := authhandler.NewHandler(backend, cookies)

		if cfg.OIDC.Enabled() {
			p, err := oidc.New(ctx, oidc.Config{
				Name:          cfg.OIDC.Name,
				Issuer:        cfg.OIDC.Issuer,
				ClientID:      cfg.OIDC.ClientID,
				ClientSecret:  cfg.OIDC.ClientSecret,
				RedirectURL:   cfg.OIDC.RedirectURL,
				PublicBaseURL: cfg.OIDC.PublicBaseURL,
			})
			if err != nil {
				return nil, nil, err
			}
			h.WithOAuth(provider.NewRegistry(p), resolver.NewDBResolver(infra.DB), backend)
		}
		return backend, h, nil
	}

	return nil, nil, fmt.Errorf("unknown auth backend %q", cfg.AuthBackend)
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(d.serviceName),
		middleware.SecurityHeaders(d.imageDomains),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Everything below sees the request's Viewer.
	site := router.Group("/", middleware.Gin(middleware.LoadViewer(d.backend)))

	page := middleware.Gin(middleware.RedirectAnonymous(string(landing.Login)))
	api := middleware.Gin(middleware.RequireAuth)

	site.GET("/", landing.Handler())

	d.auth.RegisterRoutes(site, d.limiter.Middleware())

	learnerhandler.NewHandler(d.learners, d.cookies).RegisterRoutes(site, page, api)

	if d.assistant != nil {
		llm.NewHandler(d.assistant, d.learners).RegisterRoutes(site, api)
	}

	for _, route := range router.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}

	return router
}
