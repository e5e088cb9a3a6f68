package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/quest/internal/app"
	"github.com/forgo/quest/internal/catalog"
	"github.com/forgo/quest/internal/config"
	"github.com/forgo/quest/internal/handler"
	"github.com/forgo/quest/internal/middleware"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store",
			slog.String("driver", cfg.Store.Driver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()
	slog.Info("store ready", slog.String("driver", cfg.Store.Driver))

	quests, err := catalog.LoadQuests(cfg.Quests.Path)
	if err != nil {
		slog.Error("failed to load quest feed",
			slog.String("path", cfg.Quests.Path),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	slog.Info("quest feed loaded", slog.Int("quests", quests.Len()))

	verifier, err := middleware.LoadTokenVerifier(cfg.JWT.PublicKeyPath, cfg.JWT.Issuer)
	if err != nil {
		slog.Error("failed to load token verifier", slog.String("error", err.Error()))
		os.Exit(1)
	}

	svcs := app.NewServices(store, cfg, quests, logger)
	defer svcs.Close()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})

	handlers := &handler.Handlers{
		Me:           handler.NewMeHandler(svcs.Profiles, svcs.Feed),
		Quests:       handler.NewQuestHandler(quests, svcs.Profiles, svcs.Progression),
		Skills:       handler.NewSkillHandler(svcs.Skills, svcs.Profiles),
		Achievements: handler.NewAchievementHandler(svcs.Achievements),
		Guilds:       handler.NewGuildHandler(svcs.Guilds),
	}

	// Create router and register routes
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux,
		middleware.Auth(verifier),
		middleware.RateLimit(rateLimiter),
	)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Close the feed first so open progress streams return
	svcs.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
