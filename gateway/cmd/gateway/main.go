package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/gateway/internal/config"
	"github.com/mkravets/socialnet/gateway/internal/httpserver"
	"github.com/mkravets/socialnet/pkg/cache"
	"github.com/mkravets/socialnet/pkg/logging"
	"github.com/mkravets/socialnet/pkg/ratelimit"
	"github.com/mkravets/socialnet/pkg/respond"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", "gateway")
	slog.SetDefault(logger)

	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	store := ratelimit.NewRedisStore(redisClient)
	burst := ratelimit.New(store, "rl:burst", int64(cfg.BurstLimit), cfg.BurstWindow)
	window := ratelimit.New(store, "rl:win", int64(cfg.WindowLimit), cfg.WindowPeriod)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = respond.ErrorHandler(logger)
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Deps{
		UserURL:   cfg.UserURL,
		PostURL:   cfg.PostURL,
		MediaURL:  cfg.MediaURL,
		SearchURL: cfg.SearchURL,
		JWTSecret: cfg.JWTSecret,
		Burst:     burst,
		Window:    window,
		Logger:    logger,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		logger.Info("gateway listening", "addr", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
