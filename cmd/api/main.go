package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fileview/docs"
	"fileview/internal/apiclient"
	"fileview/internal/config"
	"fileview/internal/database"
	"fileview/internal/database/migration"
	"fileview/internal/datastore"
	"fileview/internal/filelist"
	handlers "fileview/internal/http/handler"
	"fileview/internal/http/middleware"
	"fileview/internal/logging"
	"fileview/internal/otel"
	"fileview/internal/repository"
	"fileview/internal/repository/postgres"
	"fileview/internal/service"
	"fileview/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title File View API
// @version 1.0
// @description File list view over the analysis server REST API.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Location: loc})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Cancelled on SIGINT/SIGTERM; bounds background enrichment.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("tracing_init_failed", zap.Error(err))
	}

	api, err := apiclient.NewClient(cfg.Upstream.BaseURL, apiclient.WithTimeout(cfg.Upstream.Timeout()))
	if err != nil {
		logger.Fatal("upstream_client_init_failed", zap.Error(err))
	}

	// Load history is optional
	var (
		db    *sql.DB
		loads repository.LoadRepository
	)
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("db_connect_failed", zap.Error(err))
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			logger.Fatal("db_migration_failed", zap.Error(err))
		}
		loads = postgres.NewLoadPostgres(db)
	} else {
		logger.Info("load_history_disabled")
	}

	// Snapshot export is optional
	var objects storage.Storage
	if cfg.MinIO.Enabled() {
		objects, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			logger.Fatal("object_storage_init_failed", zap.Error(err))
		}
	} else {
		logger.Info("export_disabled")
	}

	metrics, err := filelist.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("metrics_init_failed", zap.Error(err))
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("metrics_init_failed", zap.Error(err))
	}

	svc := service.NewFileViewService(api, datastore.New(), loads, objects,
		service.WithLogger(logger),
		service.WithMetrics(metrics),
		service.WithEnrichConcurrency(cfg.Upstream.EnrichConcurrency),
		service.WithBaseContext(ctx),
		service.WithURLExpiry(time.Duration(cfg.MinIO.URLExpirySec)*time.Second),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.LoggerWithZap(logger))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, api, svc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", zap.String("addr", addr), zap.String("upstream", cfg.Upstream.BaseURL))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server_failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("server_stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", zap.Error(err))
	}
	// In-flight history updates finish after enrichment is cancelled.
	stop()
	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pending_history_updates_abandoned")
	}
	if err := shutdownTracing(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("tracing_shutdown_failed", zap.Error(err))
	}
}
