package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/LautaroYamil/trabajo-practico-2/pkg/config"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/database"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/tracing"
)

// Storage backends for the cart key-value store.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Order history backends.
const (
	OrdersKV       = "kv"
	OrdersPostgres = "postgres"
)

// ServiceName tags logs, metrics and traces.
const ServiceName = "storefront"

// Config holds all configuration for the storefront server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int      `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	ShutdownSeconds int      `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"15"`
	CORSOrigins     []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	CatalogMaxAge   int      `env:"CATALOG_CACHE_SECONDS" envDefault:"300"`

	// Cart key-value storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"storefront.db"`
	CartTTL        int    `env:"CART_TTL_HOURS" envDefault:"168"`

	// Redis
	RedisHost      string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort      int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass      string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize  int    `env:"REDIS_POOL_SIZE" envDefault:"0"`
	RedisTimeoutMs int    `env:"REDIS_TIMEOUT_MS" envDefault:"1000"`

	// Order history
	OrderBackend string `env:"ORDER_BACKEND" envDefault:"kv"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"storefront_secret"`
	PostgresDB   string `env:"STOREFRONT_DB_NAME" envDefault:"storefront_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Circuit breaker around the event publisher
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofEnabled      bool     `env:"PPROF_ENABLED" envDefault:"false"`
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`

	// Pricing and cart rules
	FreeShippingThreshold int64 `env:"FREE_SHIPPING_THRESHOLD" envDefault:"15000"`
	ShippingFee           int64 `env:"SHIPPING_FEE" envDefault:"1500"`
	MaxQuantityPerItem    int   `env:"MAX_QUANTITY_PER_ITEM" envDefault:"100"`

	// Session registry
	SessionIdleMinutes  int `env:"SESSION_IDLE_MINUTES" envDefault:"30"`
	SessionEvictSeconds int `env:"SESSION_EVICT_INTERVAL_SECONDS" envDefault:"60"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.StorageBackend {
	case StorageMemory, StorageRedis:
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of memory, redis, sqlite, got %q", c.StorageBackend)
	}
	switch c.OrderBackend {
	case OrdersKV:
	case OrdersPostgres:
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
	default:
		return fmt.Errorf("ORDER_BACKEND must be one of kv, postgres, got %q", c.OrderBackend)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0, 1], got %f", c.CBFailureRatio)
	}
	if c.FreeShippingThreshold < 0 || c.ShippingFee < 0 {
		return fmt.Errorf("shipping amounts must not be negative")
	}
	if c.MaxQuantityPerItem < 1 {
		return fmt.Errorf("MAX_QUANTITY_PER_ITEM must be at least 1, got %d", c.MaxQuantityPerItem)
	}
	if c.RedisPoolSize < 0 || c.RedisTimeoutMs < 1 {
		return fmt.Errorf("REDIS_POOL_SIZE must not be negative and REDIS_TIMEOUT_MS must be positive")
	}
	if c.CartTTL < 0 {
		return fmt.Errorf("CART_TTL_HOURS must not be negative, got %d", c.CartTTL)
	}
	if c.SessionIdleMinutes < 1 || c.SessionEvictSeconds < 1 {
		return fmt.Errorf("session idle and eviction intervals must be positive")
	}
	return nil
}

// Postgres returns the pool configuration for the order history database.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the client configuration for the cart store.
func (c *Config) Redis() database.RedisConfig {
	timeout := time.Duration(c.RedisTimeoutMs) * time.Millisecond
	cfg := database.DefaultRedisConfig()
	cfg.Host = c.RedisHost
	cfg.Port = c.RedisPort
	cfg.Password = c.RedisPass
	cfg.DB = c.RedisDB
	cfg.PoolSize = c.RedisPoolSize
	cfg.ReadTimeout = timeout
	cfg.WriteTimeout = timeout
	return cfg
}

// Tracing returns the OpenTelemetry configuration.
func (c *Config) Tracing() tracing.Config {
	cfg := tracing.DefaultConfig(ServiceName)
	cfg.Environment = c.Environment
	cfg.OTLPEndpoint = c.OTELEndpoint
	cfg.SampleRate = c.OTELSampleRate
	cfg.Enabled = c.OTELEnabled
	return cfg
}

// CartTTLDuration is how long an idle cart survives in Redis.
func (c *Config) CartTTLDuration() time.Duration {
	return time.Duration(c.CartTTL) * time.Hour
}

// SessionIdle is how long a session may stay unused before eviction.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// SessionEvictInterval is how often idle sessions are swept.
func (c *Config) SessionEvictInterval() time.Duration {
	return time.Duration(c.SessionEvictSeconds) * time.Second
}

// ShutdownTimeout bounds graceful shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownSeconds) * time.Second
}

// SlowQueryThreshold is the duration above which queries are logged.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}
