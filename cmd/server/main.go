package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	estimateapp "github.com/ever-co/invoicing/internal/application/estimate"
	invoiceapp "github.com/ever-co/invoicing/internal/application/invoice"
	"github.com/ever-co/invoicing/internal/infrastructure/auth"
	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"github.com/ever-co/invoicing/internal/infrastructure/logger"
	"github.com/ever-co/invoicing/internal/infrastructure/mail"
	"github.com/ever-co/invoicing/internal/infrastructure/persistence"
	"github.com/ever-co/invoicing/internal/infrastructure/printing"
	"github.com/ever-co/invoicing/internal/infrastructure/scheduler"
	"github.com/ever-co/invoicing/internal/infrastructure/telemetry"
	"github.com/ever-co/invoicing/internal/interfaces/http/handler"
	"github.com/ever-co/invoicing/internal/interfaces/http/middleware"
	"github.com/ever-co/invoicing/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/ever-co/invoicing/docs"
)

//	@title			Invoicing API
//	@version		1.0
//	@description	Invoices, estimates, PDF documents and public estimate links

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

// tempFileMaxAge is how long a temporary PDF may outlive its render before the sweep removes it
const tempFileMaxAge = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		Service:     cfg.App.Name,
		Version:     version,
		Environment: cfg.App.Env,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}

	log, err := logger.New(logCfg, logs.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if err := run(ctx, cfg, log, logs); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, logs *telemetry.LoggerProvider) error {
	log.Info("Starting invoicing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry
	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	meters, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	if profiler.IsEnabled() && tracer.IsEnabled() {
		tracer.EnableSpanProfiles()
	}
	defer func() {
		shutdownCtx := context.Background()
		for name, stop := range map[string]func() error{
			"tracer":   func() error { return tracer.Shutdown(shutdownCtx) },
			"meter":    func() error { return meters.Shutdown(shutdownCtx) },
			"logs":     func() error { return logs.Shutdown(shutdownCtx) },
			"profiler": profiler.Stop,
		} {
			if err := stop(); err != nil {
				log.Error("Telemetry shutdown failed", zap.String("component", name), zap.Error(err))
			}
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		return fmt.Errorf("database tracing: %w", err)
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Redis backs the redemption ledger and the public rate limiter when configured
	var (
		redisClient *redis.Client
		ledger      auth.RedemptionLedger
		limiter     middleware.Limiter
	)
	if cfg.Redis.Host != "" {
		redisClient, err = auth.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		ledger = auth.NewRedisRedemptionLedger(redisClient)
		limiter = middleware.NewRedisLimiter(redisClient, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		log.Warn("Redis not configured, estimate redemptions and rate limits are tracked in memory")
		ledger = auth.NewInMemoryRedemptionLedger()
		memLimiter := middleware.NewMemoryLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer memLimiter.Stop()
		limiter = memLimiter
	}

	// Printing
	engine, engineErr := printing.NewEngine(cfg.Printing, log)
	if engineErr != nil {
		log.Error("PDF engine unavailable, document downloads will fail", zap.Error(engineErr))
		engine = printing.UnavailableEngine(engineErr)
	}
	docMetrics, err := telemetry.NewDocumentMetrics(meters.Meter("invoicing/printing"))
	if err != nil {
		return err
	}
	renderer, err := printing.NewRenderer(engine, printing.RendererConfig{
		OutputDir:   cfg.Printing.OutputDir,
		Timeout:     cfg.Printing.Timeout,
		DefaultFont: cfg.Printing.DefaultFont,
	}, log, printing.WithObserver(docMetrics))
	if err != nil {
		return err
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Warn("Error closing PDF engine", zap.Error(err))
		}
	}()

	transport, err := mail.NewTransport(ctx, cfg.Mail, log)
	if err != nil {
		return fmt.Errorf("mail transport: %w", err)
	}

	// Services
	signer := auth.NewCapabilitySigner(cfg.JWT.CapabilitySecret, cfg.JWT.Issuer)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)

	estimateService := estimateapp.NewEstimateEmailService(
		invoiceRepo,
		persistence.NewGormEstimateEmailRepository(db.DB),
		orgRepo,
		signer,
		ledger,
		estimateapp.WithLogger(log),
	)
	invoiceService := invoiceapp.NewInvoiceService(invoiceapp.Dependencies{
		Invoices:      invoiceRepo,
		Organizations: orgRepo,
		Contacts:      persistence.NewGormContactRepository(db.DB),
		Payments:      persistence.NewGormPaymentRepository(db.DB),
		EmailRecords:  persistence.NewGormEmailRecordRepository(db.DB),
		Estimates:     estimateService,
		Links:         signer,
		Renderer:      renderer,
		Transport:     transport,
	}, invoiceapp.Config{
		ClientBaseURL:  cfg.App.ClientBaseURL,
		MailFrom:       cfg.Mail.From,
		BlockedDomains: cfg.Mail.BlockedDomains,
	}, invoiceapp.WithLogger(log))

	// Maintenance
	maintenance, err := scheduler.NewPeriodicTrigger(log, scheduler.Job{
		Name:       "sweep-temporary-pdfs",
		Interval:   5 * time.Minute,
		RunOnStart: true,
		Run: func(context.Context) error {
			_, err := renderer.Sweep(tempFileMaxAge)
			return err
		},
	}, scheduler.Job{
		Name:     "db-pool-stats",
		Interval: time.Minute,
		Run: func(context.Context) error {
			stats, err := db.Stats()
			if err != nil {
				return err
			}
			log.Debug("Database pool",
				zap.Int("open", stats.OpenConnections),
				zap.Int("in_use", stats.InUse),
				zap.Int("idle", stats.Idle),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Duration("wait_duration", stats.WaitDuration),
			)
			return nil
		},
	})
	if err != nil {
		return err
	}
	if err := maintenance.Start(ctx); err != nil {
		return err
	}

	// HTTP
	checks := []handler.HealthCheck{
		{Name: "database", Check: func(ctx context.Context) error { return db.DB.WithContext(ctx).Exec("SELECT 1").Error }},
		{Name: "renderer", Check: func(context.Context) error { return engineErr }},
	}
	if redisClient != nil {
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	httpEngine, err := newEngine(cfg, log, meters)
	if err != nil {
		return err
	}

	permissions := middleware.PermissionConfig{Logger: log}
	jwtService := auth.NewJWTService(cfg.JWT)

	var publicMW []gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		publicMW = append(publicMW, middleware.RateLimit(limiter, log))
	}
	router.NewRouter(httpEngine,
		router.WithPublicMiddleware(publicMW...),
		router.WithAuth(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Logger:     log,
		})),
		router.WithSwagger(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
	).
		Root(handler.NewSystemHandler(version, checks...)).
		Public(handler.NewPublicHandler(estimateService, invoiceService)).
		Protected(handler.NewInvoiceHandler(invoiceService, permissions)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        httpEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := maintenance.Stop(shutdownCtx); err != nil {
		log.Warn("Maintenance jobs did not stop in time", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}
