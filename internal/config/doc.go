// Package config loads and validates configuration for the quest API and
// questctl.
//
// Values come from environment variables parsed with caarlos0/env struct
// tags. A .env file in the working directory is read first when present;
// variables already set in the environment take precedence.
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Environment Variables
//
//	SERVER_PORT            HTTP port (default 8080)
//	SERVER_ENV             development | production | test
//	SERVER_READ_TIMEOUT    default 15s
//	SERVER_WRITE_TIMEOUT   default 15s
//	CORS_ALLOWED_ORIGINS   comma separated
//	STORE_DRIVER           memory | sqlite | redis | surrealdb
//	SQLITE_PATH            sqlite database file
//	REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
//	DB_HOST, DB_PORT, DB_NAMESPACE, DB_DATABASE, DB_USER, DB_PASSWORD
//	JWT_PUBLIC_KEY_PATH    PEM RSA public key of the token issuer
//	JWT_ISSUER             expected iss claim, empty to skip the check
//	TX_MAX_ATTEMPTS, TX_INITIAL_BACKOFF, TX_MAX_BACKOFF
//	QUESTS_PATH            YAML quest feed
//	FEED_BUFFER            pending progress updates per stream subscriber
//	RATE_LIMIT_RATE, RATE_LIMIT_WINDOW, RATE_LIMIT_BURST
//
// Validate only checks the settings of the selected STORE_DRIVER.
package config
