package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/LautaroYamil/trabajo-practico-2/internal/cart"
	"github.com/LautaroYamil/trabajo-practico-2/internal/catalog"
	"github.com/LautaroYamil/trabajo-practico-2/internal/config"
	"github.com/LautaroYamil/trabajo-practico-2/internal/event"
	handler "github.com/LautaroYamil/trabajo-practico-2/internal/handler/http"
	"github.com/LautaroYamil/trabajo-practico-2/internal/notify"
	"github.com/LautaroYamil/trabajo-practico-2/internal/repository"
	"github.com/LautaroYamil/trabajo-practico-2/internal/repository/kv"
	"github.com/LautaroYamil/trabajo-practico-2/internal/repository/postgres"
	"github.com/LautaroYamil/trabajo-practico-2/internal/session"
	"github.com/LautaroYamil/trabajo-practico-2/internal/storage"
	"github.com/LautaroYamil/trabajo-practico-2/internal/storage/memory"
	redisstore "github.com/LautaroYamil/trabajo-practico-2/internal/storage/redis"
	"github.com/LautaroYamil/trabajo-practico-2/internal/storage/sqlite"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/database"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/health"
	pkgkafka "github.com/LautaroYamil/trabajo-practico-2/pkg/kafka"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/middleware"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/tracing"
)

// App wires together all dependencies and runs the storefront server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	sqlite         *sqlite.Store
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	sessions       *session.Registry
	health         *health.Handler
	handler        http.Handler
	httpServer     *http.Server
	shutdownTracer func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// Anything opened before a failure is closed again.
func NewApp(cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{
		cfg:    cfg,
		logger: logger,
		health: health.NewHandler(),
	}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	// Tracing.
	a.shutdownTracer, err = tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Cart key-value storage.
	kvStore, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	// Order history.
	orders, err := a.openOrders(ctx)
	if err != nil {
		return nil, err
	}

	// Listeners: logs and metrics always, Kafka events when enabled.
	reg := prometheus.NewRegistry()
	listeners := []notify.Listener{
		notify.NewLogging(logger),
		notify.NewMetrics(reg),
	}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		listeners = append(listeners, event.NewListener(a.producer, event.BreakerConfig{
			Name:         "kafka-publisher",
			MaxRequests:  cfg.CBMaxRequests,
			Interval:     time.Duration(cfg.CBInterval) * time.Second,
			Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
			FailureRatio: cfg.CBFailureRatio,
			MinRequests:  cfg.CBMinRequests,
		}, logger))
		a.health.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	products, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	a.sessions = session.NewRegistry(kvStore, orders, notify.Fanout(listeners...), logger,
		cart.WithShippingRule(cart.ShippingRule{
			FreeAbove: cfg.FreeShippingThreshold,
			Fee:       cfg.ShippingFee,
		}),
		cart.WithMaxQuantity(cfg.MaxQuantityPerItem),
	)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSOrigins
	corsCfg.Environment = cfg.Environment

	a.handler = handler.NewRouter(products, a.sessions, a.health, logger, handler.RouterConfig{
		CORS:          corsCfg,
		CatalogMaxAge: cfg.CatalogMaxAge,
		PprofEnabled:  cfg.PprofEnabled,
		PprofCIDRs:    cfg.PprofAllowedCIDRs,
		Metrics: promhttp.HandlerFor(
			prometheus.Gatherers{prometheus.DefaultGatherer, reg},
			promhttp.HandlerOpts{},
		),
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// openStorage connects the configured cart backend and registers its health check.
func (a *App) openStorage(ctx context.Context) (storage.Store, error) {
	switch a.cfg.StorageBackend {
	case config.StorageRedis:
		rdb, err := database.NewRedisClient(ctx, a.cfg.Redis())
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		store := redisstore.NewStore(rdb, a.cfg.CartTTLDuration())
		a.health.RegisterCritical("redis", store.Ping)
		a.logger.Info("connected to Redis",
			slog.String("addr", a.cfg.Redis().Addr()),
			slog.Int("db", a.cfg.RedisDB),
		)
		return store, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, a.cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		a.sqlite = store
		a.logger.Info("opened SQLite storage", slog.String("path", a.cfg.SQLitePath))
		return store, nil

	default:
		a.logger.Warn("using in-memory cart storage; carts are lost on restart")
		return memory.New(), nil
	}
}

// openOrders picks the order history for each session.
func (a *App) openOrders(ctx context.Context) (session.OrdersFunc, error) {
	if a.cfg.OrderBackend != config.OrdersPostgres {
		return func(_ string, kvStore storage.Store) repository.OrderRepository {
			return kv.NewOrderRepository(kvStore, a.logger)
		}, nil
	}

	pool, err := database.NewPostgresPool(ctx, a.cfg.Postgres(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool

	if err := database.RunMigrations(ctx, pool, postgres.Migrations(), a.logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	database.SetSlowQueryLogging(a.cfg.SlowQueryThreshold(), a.logger)

	a.health.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	history := postgres.NewOrderRepository(pool)
	return func(id string, _ storage.Store) repository.OrderRepository {
		return history.ForOwner(id)
	}, nil
}

// Handler returns the HTTP handler served by the application.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts the HTTP server and the session evictor, and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	evictCtx, stopEvictor := context.WithCancel(ctx)
	defer stopEvictor()
	go a.sessions.RunEvictor(evictCtx, a.cfg.SessionEvictInterval(), a.cfg.SessionIdle())

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("storage", a.cfg.StorageBackend),
			slog.String("orders", a.cfg.OrderBackend),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		stopEvictor()
		a.close(context.Background())
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.close(shutdownCtx)

	a.logger.Info("application shutdown complete")
	return nil
}

// close releases every backend that was opened. Nil fields are skipped.
func (a *App) close(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil {
			a.logger.Error("sqlite close error", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
}
