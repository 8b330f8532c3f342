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

	"github.com/mkravets/socialnet/pkg/db"
	pkgevents "github.com/mkravets/socialnet/pkg/events"
	"github.com/mkravets/socialnet/pkg/logging"
	loggingmw "github.com/mkravets/socialnet/pkg/middleware/logging"
	"github.com/mkravets/socialnet/pkg/respond"
	"github.com/mkravets/socialnet/services/media/internal/config"
	mediaevents "github.com/mkravets/socialnet/services/media/internal/events"
	"github.com/mkravets/socialnet/services/media/internal/httpserver"
	"github.com/mkravets/socialnet/services/media/internal/models"
	"github.com/mkravets/socialnet/services/media/internal/repo"
	"github.com/mkravets/socialnet/services/media/internal/service"
	"github.com/mkravets/socialnet/services/media/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", "media")
	slog.SetDefault(logger)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	initCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Media{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	objStore, err := storage.NewS3Storage(rootCtx, storage.S3Config{
		Region:       cfg.S3Region,
		Bucket:       cfg.S3Bucket,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		BaseEndpoint: cfg.S3BaseEndpoint,
		PublicURL:    cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatalf("object storage init error: %v", err)
	}

	mediaRepo := &repo.GormRepo{DB: gdb}

	handler := &mediaevents.PostDeletedHandler{
		Repo:    mediaRepo,
		Storage: objStore,
	}
	consumer := pkgevents.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, logger)
	go func() {
		if err := consumer.Consume(rootCtx, pkgevents.TopicPostDeleted, handler.Handle); err != nil {
			logger.Error("post.deleted subscription ended", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = respond.ErrorHandler(logger)
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		MediaHandler: &httpserver.MediaHTTP{
			Svc: &service.MediaService{
				Repo:    mediaRepo,
				Storage: objStore,
			},
		},
	})

	go func() {
		logger.Info("media service listening", "addr", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
