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

	pkgevents "github.com/mkravets/socialnet/pkg/events"
	"github.com/mkravets/socialnet/pkg/logging"
	loggingmw "github.com/mkravets/socialnet/pkg/middleware/logging"
	"github.com/mkravets/socialnet/pkg/respond"
	"github.com/mkravets/socialnet/services/search/internal/config"
	"github.com/mkravets/socialnet/services/search/internal/es"
	searchevents "github.com/mkravets/socialnet/services/search/internal/events"
	"github.com/mkravets/socialnet/services/search/internal/httpserver"
	"github.com/mkravets/socialnet/services/search/internal/index"
	"github.com/mkravets/socialnet/services/search/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", "search")
	slog.SetDefault(logger)

	esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}
	indexer := &index.ESIndexer{Client: esClient, IndexName: cfg.ESIndex}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	handler := &searchevents.IndexHandler{Indexer: indexer}
	consumer := pkgevents.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, logger)
	go func() {
		if err := consumer.Consume(rootCtx, pkgevents.TopicPostCreated, handler.HandlePostCreated); err != nil {
			logger.Error("post.created subscription ended", "error", err)
		}
	}()
	go func() {
		if err := consumer.Consume(rootCtx, pkgevents.TopicPostDeleted, handler.HandlePostDeleted); err != nil {
			logger.Error("post.deleted subscription ended", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = respond.ErrorHandler(logger)
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		SearchHandler: &httpserver.SearchHTTP{
			Svc: &service.SearchService{Indexer: indexer},
		},
	})

	go func() {
		logger.Info("search service listening", "addr", cfg.ListenAddr)
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
