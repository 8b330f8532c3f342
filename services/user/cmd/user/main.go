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
	"github.com/mkravets/socialnet/pkg/logging"
	loggingmw "github.com/mkravets/socialnet/pkg/middleware/logging"
	"github.com/mkravets/socialnet/pkg/respond"
	"github.com/mkravets/socialnet/services/user/internal/config"
	"github.com/mkravets/socialnet/services/user/internal/httpserver"
	"github.com/mkravets/socialnet/services/user/internal/models"
	"github.com/mkravets/socialnet/services/user/internal/repo"
	"github.com/mkravets/socialnet/services/user/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", "user")
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.RefreshToken{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = respond.ErrorHandler(logger)
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.UserService{
				Repo:      repo.GormRepo{DB: gdb},
				JWTSecret: cfg.JWTSecret,
			},
		},
	})

	go func() {
		logger.Info("user service listening", "addr", cfg.ListenAddr)
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
