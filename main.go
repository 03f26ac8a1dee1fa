package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"hrm-access/cache"
	"hrm-access/config"
	"hrm-access/database"
	"hrm-access/handlers"
	"hrm-access/middleware"
	"hrm-access/router"
	"hrm-access/routes"
	"hrm-access/session"
	"hrm-access/token"
	"hrm-access/utils"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	client, err := database.Connect(connectCtx, cfg)
	connectCancel()
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())
	logger.Info("connected to MongoDB", "database", cfg.Database)

	// Connect to Redis
	if err := cache.InitRedis(cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}); err != nil {
		logger.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to Redis", "host", cfg.RedisHost)

	// Access-control plumbing: one codec shared by the auth endpoints, the
	// edge gate and the API middleware.
	codec := token.NewCodec(cfg.JWTSecret, cfg.SessionTTL)
	resolver := session.NewResolver(codec)
	table := routes.Default(cfg.ProtectedPrefix)
	gate := middleware.NewGate(resolver, table, logger)

	h := handlers.NewHandler(client, cfg, codec, logger)

	// Keep the directory caches warm in the background
	cacheJob := utils.NewDirectoryCacheJob(client, cfg.Database, 10*time.Minute, logger)
	cacheJob.Start(ctx)

	r := router.SetupRoutes(h, gate)

	logger.Info("server listening", "addr", cfg.Addr, "protected_prefix", cfg.ProtectedPrefix)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
