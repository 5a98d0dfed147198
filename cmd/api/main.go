package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"freight-rating/internal/core/cache"
	"freight-rating/internal/core/config"
	"freight-rating/internal/core/logger"
	"freight-rating/internal/core/server"
	"freight-rating/internal/features/rating/adapters"
	"freight-rating/internal/features/rating/engine"
	"freight-rating/internal/features/rating/handler"
	"freight-rating/internal/features/rating/service"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title Freight Rating API
// @version 1.0
// @description Rates shipments on freight channels: charge weight, tiered or flat base freight and conditional extra fees.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Channel snapshot cache
	redisCache, err := cache.NewRedisAdapter(cfg.Cache.RedisURL)
	if err != nil {
		l.Fatal("Invalid cache configuration", zap.Error(err))
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		l.Warn("Redis unreachable, channels will be loaded on every request", zap.Error(err))
	}

	// Channel configuration API
	channelAPI := adapters.NewHTTPChannelProvider(cfg.ChannelAPI)
	if err := channelAPI.HealthCheck(ctx); err != nil {
		l.Fatal("Channel API Health Check Failed", zap.Error(err))
	}
	l.Info("Channel API connection verified")

	channels := adapters.NewCachedChannelProvider(channelAPI, redisCache, cfg.Cache.ChannelCacheTTL(), logger.Component("channels"))

	// Rating engine, service & handler
	eng := engine.New(engine.Config{
		DefaultCurrency:    cfg.Rating.DefaultCurrency,
		DefaultVolRatio:    cfg.Rating.DefaultVolRatio,
		MaxExpressionDepth: cfg.Rating.MaxExpressionDepth,
	}, logger.Component("engine"))
	ratingService := service.NewRatingService(channels, channels, eng, cfg.Rating.Workers, logger.Component("rating"))
	ratingHandler := handler.NewRatingHandler(ratingService)

	srv := server.New(cfg)

	// Register Routes
	ratingHandler.Register(srv.App)
	srv.RegisterHealth(
		server.HealthCheck{Name: "redis", Check: redisCache.Ping},
		server.HealthCheck{Name: "channel_api", Check: channelAPI.HealthCheck},
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
	l.Info("Server stopped")
}
