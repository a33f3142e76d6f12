package config

import (
	"fmt"
	"time"

	"github.com/opencatalog/catalog/pkg/database"

	pkgconfig "github.com/opencatalog/catalog/pkg/config"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"catalog"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"catalog_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"catalog"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Access gate (identity provider). Disabled by default; when enabled
	// the authority, client credentials, and session secret are required.
	AuthEnabled      bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthAuthority    string `env:"AUTH_AUTHORITY"`
	AuthClientID     string `env:"AUTH_CLIENT_ID"`
	AuthClientSecret string `env:"AUTH_CLIENT_SECRET"`
	AuthRedirectURI  string `env:"AUTH_REDIRECT_URI"`
	SessionSecret    string `env:"SESSION_SECRET"`
	SessionExpiryMin int    `env:"SESSION_EXPIRY_MINUTES" envDefault:"720"`

	// Cookies are marked Secure outside development.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"false"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.PostgresHost == "" {
		return nil, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.AuthEnabled {
		if cfg.AuthAuthority == "" {
			return nil, fmt.Errorf("AUTH_AUTHORITY is required when AUTH_ENABLED is set")
		}
		if cfg.AuthClientID == "" {
			return nil, fmt.Errorf("AUTH_CLIENT_ID is required when AUTH_ENABLED is set")
		}
		if cfg.AuthClientSecret == "" {
			return nil, fmt.Errorf("AUTH_CLIENT_SECRET is required when AUTH_ENABLED is set")
		}
		if cfg.AuthRedirectURI == "" {
			return nil, fmt.Errorf("AUTH_REDIRECT_URI is required when AUTH_ENABLED is set")
		}
		if cfg.SessionSecret == "" {
			return nil, fmt.Errorf("SESSION_SECRET is required when AUTH_ENABLED is set")
		}
	}
	return cfg, nil
}

// Postgres returns the connection pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
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

// SessionExpiry returns the configured session lifetime.
func (c *Config) SessionExpiry() time.Duration {
	return time.Duration(c.SessionExpiryMin) * time.Minute
}
