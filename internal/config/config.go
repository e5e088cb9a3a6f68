package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory    = "memory"
	DriverSQLite    = "sqlite"
	DriverRedis     = "redis"
	DriverSurrealDB = "surrealdb"
)

var drivers = []string{DriverMemory, DriverSQLite, DriverRedis, DriverSurrealDB}

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Tx        TxConfig
	Quests    QuestsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `env:"SERVER_PORT" envDefault:"8080"`
	Env            string        `env:"SERVER_ENV" envDefault:"development"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
}

// StoreConfig selects the record store backend
type StoreConfig struct {
	Driver     string `env:"STORE_DRIVER" envDefault:"memory"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./quest.db"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `env:"DB_HOST" envDefault:"localhost"`
	Port      string `env:"DB_PORT" envDefault:"8000"`
	Namespace string `env:"DB_NAMESPACE" envDefault:"quest"`
	Database  string `env:"DB_DATABASE" envDefault:"main"`
	User      string `env:"DB_USER" envDefault:"root"`
	Password  string `env:"DB_PASSWORD" envDefault:"root"`
}

// JWTConfig holds access token verification settings
type JWTConfig struct {
	PublicKeyPath string `env:"JWT_PUBLIC_KEY_PATH" envDefault:"./keys/public.pem"`
	Issuer        string `env:"JWT_ISSUER"`
}

// TxConfig bounds the optimistic transaction retry loop
type TxConfig struct {
	MaxAttempts    int           `env:"TX_MAX_ATTEMPTS" envDefault:"5"`
	InitialBackoff time.Duration `env:"TX_INITIAL_BACKOFF" envDefault:"10ms"`
	MaxBackoff     time.Duration `env:"TX_MAX_BACKOFF" envDefault:"250ms"`
}

// QuestsConfig locates the quest feed and sizes the progress feed
type QuestsConfig struct {
	Path       string `env:"QUESTS_PATH" envDefault:"./quests.yaml"`
	FeedBuffer int    `env:"FEED_BUFFER" envDefault:"16"`
}

// RateLimitConfig holds per-user request limits
type RateLimitConfig struct {
	Rate   int           `env:"RATE_LIMIT_RATE" envDefault:"60"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Burst  int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// Load reads a .env file when one is present, then configuration from
// environment variables with sensible defaults. Variables already set in
// the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads configuration from the given variables only
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Store validation, only for the selected backend
	switch c.Store.Driver {
	case DriverMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("STORE_DRIVER 'memory' is not allowed in production"))
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis driver"))
		}
		if c.Redis.DB < 0 {
			errs = append(errs, errors.New("REDIS_DB must not be negative"))
		}
	case DriverSurrealDB:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("DB_DATABASE is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be one of %v, got '%s'", drivers, c.Store.Driver))
	}

	if c.JWT.PublicKeyPath == "" {
		errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required"))
	}

	// Transaction validation
	if c.Tx.MaxAttempts < 1 {
		errs = append(errs, errors.New("TX_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Tx.InitialBackoff <= 0 {
		errs = append(errs, errors.New("TX_INITIAL_BACKOFF must be positive"))
	}
	if c.Tx.MaxBackoff < c.Tx.InitialBackoff {
		errs = append(errs, errors.New("TX_MAX_BACKOFF must not be below TX_INITIAL_BACKOFF"))
	}

	if c.Quests.Path == "" {
		errs = append(errs, errors.New("QUESTS_PATH is required"))
	}
	if c.Quests.FeedBuffer < 1 {
		errs = append(errs, errors.New("FEED_BUFFER must be at least 1"))
	}

	if c.RateLimit.Rate < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_RATE must be at least 1"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// KnownDriver reports whether name is a supported STORE_DRIVER
func KnownDriver(name string) bool {
	return slices.Contains(drivers, name)
}
