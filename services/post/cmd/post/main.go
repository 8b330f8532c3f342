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

	pkgcache "github.com/mkravets/socialnet/pkg/cache"
	"github.com/mkravets/socialnet/pkg/db"
	"github.com/mkravets/socialnet/pkg/events"
	"github.com/mkravets/socialnet/pkg/logging"
	loggingmw "github.com/mkravets/socialnet/pkg/middleware/logging"
	"github.com/mkravets/socialnet/pkg/ratelimit"
	"github.com/mkravets/socialnet/pkg/respond"
	"github.com/mkravets/socialnet/services/post/internal/cache"
	"github.com/mkravets/socialnet/services/post/internal/config"
	"github.com/mkravets/socialnet/services/post/internal/httpserver"
	"github.com/mkravets/socialnet/services/post/internal/models"
	"github.com/mkravets/socialnet/services/post/internal/repo"
	"github.com/mkravets/socialnet/services/post/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", "post")
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Post{}, &models.PostMedia{}, &models.Like{}, &models.Comment{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	redisClient := pkgcache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	cacheStore := pkgcache.NewRedisStore(redisClient)
	defer cacheStore.Close()

	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
	defer publisher.Close()

	svc := &service.PostService{
		Repo: &repo.GormRepo{DB: gdb},
		Cache: &cache.Manager{
			Store:      cacheStore,
			ItemTTL:    cfg.ItemTTL,
			ListingTTL: cfg.ListingTTL,
		},
		Bus: publisher,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = respond.ErrorHandler(logger)
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		PostHandler: &httpserver.PostHTTP{Svc: svc},
		// The prefix is distinct from the gateway tier's: one logical request
		// passes both limiters and must not be counted twice.
		Burst: ratelimit.New(
			ratelimit.NewRedisStore(redisClient),
			"rl:burst:post",
			int64(cfg.BurstLimit),
			cfg.BurstWindow,
		),
	})

	go func() {
		logger.Info("post service listening", "addr", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
