package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ndolgov/auth-service/internal/config"
	"github.com/ndolgov/auth-service/internal/events"
	"github.com/ndolgov/auth-service/internal/httpserver"
	"github.com/ndolgov/auth-service/internal/logging"
	"github.com/ndolgov/auth-service/internal/middleware"
	"github.com/ndolgov/auth-service/internal/repo"
	"github.com/ndolgov/auth-service/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger := logging.New(cfg.LOG_LEVEL)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *events.Producer
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		producer = events.NewProducer(brokers, cfg.KAFKA_TOPIC)
		defer producer.Close()
	}

	store := repo.NewGormStore(db)
	tokens := service.NewTokenService(store, []byte(cfg.JWT_SECRET), cfg.AccessTTL, cfg.RefreshTTL)
	auth := service.NewAuthService(store, tokens, producer)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: auth},
		Tokens:      tokens,
	})

	go func() {
		if err := e.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
