package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/expense_tracker/internal/config"
	"github.com/Skotchmaster/expense_tracker/internal/httpserver"
	"github.com/Skotchmaster/expense_tracker/internal/logging"
	"github.com/Skotchmaster/expense_tracker/internal/middleware"
	"github.com/Skotchmaster/expense_tracker/internal/mykafka"
	"github.com/Skotchmaster/expense_tracker/internal/repo"
	"github.com/Skotchmaster/expense_tracker/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(middleware.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	gormRepo := &repo.GormRepo{DB: db}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:              gormRepo,
				JWTSecret:         cfg.JWTSecret,
				PasswordMinLength: cfg.PasswordMinLength,
				Producer:          producer,
			},
			SecureCookies: !cfg.Debug,
		},
		UserHandler: &httpserver.UserHTTP{
			Svc: &service.UserService{Repo: gormRepo},
		},
		ExpenseHandler: &httpserver.ExpenseHTTP{
			Svc: &service.ExpenseService{
				Repo:     gormRepo,
				Producer: producer,
			},
		},
		Auth: middleware.NewAuthenticator(cfg.JWTSecret, gormRepo),
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
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
