package main

import (
	"fmt"

	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"github.com/ever-co/invoicing/internal/infrastructure/logger"
	"github.com/ever-co/invoicing/internal/infrastructure/telemetry"
	"github.com/ever-co/invoicing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// newEngine builds the gin engine with the global middleware stack. The
// request id is set first so recovery, the request logger and span
// enrichment can all read it.
func newEngine(cfg *config.Config, log *zap.Logger, meters *telemetry.MeterProvider) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		return nil, err
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, fmt.Errorf("trusted proxies: %w", err)
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled)...)
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Profiling(cfg.Telemetry.ProfilingEnabled))

	httpMetrics, err := middleware.HTTPMetrics(meters.Meter("invoicing/http"))
	if err != nil {
		return nil, err
	}
	engine.Use(httpMetrics)

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.Secure(cfg.App.Env == "production"))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	return engine, nil
}
