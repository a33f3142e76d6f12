package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opencatalog/catalog/internal/auth"
	"github.com/opencatalog/catalog/internal/config"
	"github.com/opencatalog/catalog/internal/event"
	handler "github.com/opencatalog/catalog/internal/handler/http"
	"github.com/opencatalog/catalog/internal/repository/postgres"
	"github.com/opencatalog/catalog/internal/service"
	"github.com/opencatalog/catalog/migrations"
	"github.com/opencatalog/catalog/pkg/database"
	"github.com/opencatalog/catalog/pkg/health"
	pkgkafka "github.com/opencatalog/catalog/pkg/kafka"
	"github.com/opencatalog/catalog/pkg/middleware"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	prometheus.MustRegister(database.NewPoolStatsCollector(pool, "catalog"))

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	productRepo := postgres.NewProductRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	eventProducer := event.NewProducer(producer, logger)
	catalogService := service.NewCatalogService(productRepo, reviewRepo, eventProducer, logger)

	renderer, err := handler.NewRenderer(logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	gate := auth.NewGate(auth.GateConfig{
		Enabled:       cfg.AuthEnabled,
		Authority:     cfg.AuthAuthority,
		ClientID:      cfg.AuthClientID,
		ClientSecret:  cfg.AuthClientSecret,
		RedirectURI:   cfg.AuthRedirectURI,
		SessionSecret: cfg.SessionSecret,
		SessionExpiry: cfg.SessionExpiry(),
		SecureCookies: cfg.SecureCookies,
	}, logger)
	if cfg.AuthEnabled {
		logger.Info("access gate enabled", slog.String("authority", cfg.AuthAuthority))
	}

	csrf := middleware.NewCSRF(logger, cfg.SecureCookies)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("kafka", producer.Ping)

	router := handler.NewRouter(handler.RouterConfig{
		Catalog:       catalogService,
		Renderer:      renderer,
		Gate:          gate,
		CSRF:          csrf,
		HealthHandler: healthHandler,
		PprofCIDRs:    cfg.PprofAllowedCIDRs,
		Logger:        logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close PostgreSQL pool.
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
