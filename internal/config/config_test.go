package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validBaseConfig() *Config {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		panic(err)
	}
	return cfg
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg := validBaseConfig()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("expected memory driver, got %q", cfg.Store.Driver)
	}
	if cfg.Tx.MaxAttempts != 5 || cfg.Tx.InitialBackoff != 10*time.Millisecond {
		t.Errorf("unexpected tx defaults: %+v", cfg.Tx)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("expected 1m rate limit window, got %v", cfg.RateLimit.Window)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got: %v", err)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"SERVER_PORT":          "9090",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"STORE_DRIVER":         "redis",
		"REDIS_ADDR":           "cache:6379",
		"REDIS_DB":             "3",
		"TX_MAX_ATTEMPTS":      "12",
		"TX_INITIAL_BACKOFF":   "5ms",
		"QUESTS_PATH":          "/etc/quest/quests.yaml",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 3 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Tx.MaxAttempts != 12 || cfg.Tx.InitialBackoff != 5*time.Millisecond {
		t.Errorf("unexpected tx config: %+v", cfg.Tx)
	}
	if cfg.Quests.Path != "/etc/quest/quests.yaml" {
		t.Errorf("unexpected quests path %q", cfg.Quests.Path)
	}
}

func TestLoadFrom_BadValue(t *testing.T) {
	_, err := LoadFrom(map[string]string{"TX_INITIAL_BACKOFF": "soon"})
	if err == nil {
		t.Fatal("expected parse error for bad duration")
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("QUESTS_PATH=/from/dotenv.yaml\nSERVER_PORT=7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("SERVER_PORT", "7777")
	t.Cleanup(func() { _ = os.Unsetenv("QUESTS_PATH") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Quests.Path != "/from/dotenv.yaml" {
		t.Errorf("expected QUESTS_PATH from .env, got %q", cfg.Quests.Path)
	}
	if cfg.Server.Port != "7777" {
		t.Errorf("expected environment to win over .env, got %q", cfg.Server.Port)
	}
}

func TestConfig_Validate_InvalidServerEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid SERVER_ENV")
	}
	if !strings.Contains(err.Error(), "SERVER_ENV") {
		t.Errorf("expected error to mention SERVER_ENV, got: %v", err)
	}
}

func TestConfig_Validate_Store(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }, "STORE_DRIVER"},
		{"memory in production", func(c *Config) { c.Server.Env = "production" }, "not allowed in production"},
		{"sqlite without path", func(c *Config) { c.Store.Driver = DriverSQLite; c.Store.SQLitePath = "" }, "SQLITE_PATH"},
		{"redis without addr", func(c *Config) { c.Store.Driver = DriverRedis; c.Redis.Addr = "" }, "REDIS_ADDR"},
		{"surrealdb without host", func(c *Config) { c.Store.Driver = DriverSurrealDB; c.Database.Host = "" }, "DB_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error to mention %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_Validate_UnusedBackendIgnored(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""
	cfg.Redis.Addr = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("settings of unselected backends should not be validated, got: %v", err)
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""
	cfg.Tx.MaxAttempts = 0
	cfg.RateLimit.Rate = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"SERVER_PORT", "TX_MAX_ATTEMPTS", "RATE_LIMIT_RATE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestConfig_Validate_Backoff(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Tx.MaxBackoff = cfg.Tx.InitialBackoff / 2

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "TX_MAX_BACKOFF") {
		t.Errorf("expected TX_MAX_BACKOFF error, got: %v", err)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := validBaseConfig()
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("expected development by default")
	}
	cfg.Server.Env = "production"
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
}

func TestKnownDriver(t *testing.T) {
	for _, d := range []string{"memory", "sqlite", "redis", "surrealdb"} {
		if !KnownDriver(d) {
			t.Errorf("expected %s to be known", d)
		}
	}
	if KnownDriver("mongo") {
		t.Error("mongo is not a driver")
	}
}
