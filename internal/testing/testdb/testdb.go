package testdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forgo/quest/internal/database"
)

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

// Factory opens a fresh, empty store for one test
type Factory struct {
	Name string
	Open func(t *testing.T) database.Store
}

// Factories returns every backend available in this environment
func Factories() []Factory {
	factories := []Factory{
		{Name: "memory", Open: Memory},
		{Name: "sqlite", Open: SQLite},
	}
	if os.Getenv("TEST_REDIS_ADDR") != "" {
		factories = append(factories, Factory{Name: "redis", Open: Redis})
	}
	if os.Getenv("TEST_DB_HOST") != "" {
		factories = append(factories, Factory{Name: "surrealdb", Open: Surreal})
	}
	return factories
}

// ForEachStore runs fn as a subtest against every available backend
func ForEachStore(t *testing.T, fn func(t *testing.T, store database.Store)) {
	t.Helper()
	for _, f := range Factories() {
		t.Run(f.Name, func(t *testing.T) {
			fn(t, f.Open(t))
		})
	}
}

// Memory returns an in-memory store
func Memory(t *testing.T) database.Store {
	t.Helper()
	return database.NewMemoryStore()
}

// SQLite returns a store backed by a file in the test's temp dir
func SQLite(t *testing.T) database.Store {
	t.Helper()
	store, err := database.OpenSQLite(filepath.Join(t.TempDir(), "quest.db"))
	if err != nil {
		t.Fatalf("testdb: open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Redis returns a store on a flushed Redis database, skipping the test if
// TEST_REDIS_ADDR is not set
func Redis(t *testing.T) database.Store {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("testdb: TEST_REDIS_ADDR not set")
	}
	db := 15
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			t.Fatalf("testdb: bad TEST_REDIS_DB: %v", err)
		}
		db = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("testdb: flush redis: %v", err)
	}
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return database.NewRedisStore(client)
}

// Surreal returns a store in a unique SurrealDB namespace, skipping the
// test if TEST_DB_HOST is not set
func Surreal(t *testing.T) database.Store {
	t.Helper()

	cfg, ok := surrealConfig()
	if !ok {
		t.Skip("testdb: TEST_DB_HOST not set")
	}
	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", cfg.Namespace), nil)
		_ = db.Close()
	})
	return database.NewSurrealStore(db)
}

// surrealConfig returns database config from the environment
func surrealConfig() (database.Config, bool) {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		return database.Config{}, false
	}
	return database.Config{
		Host:     host,
		Port:     envOr("TEST_DB_PORT", "8000"),
		User:     envOr("TEST_DB_USER", "root"),
		Password: envOr("TEST_DB_PASSWORD", "root"),
	}, true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}
