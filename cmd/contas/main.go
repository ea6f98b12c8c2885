package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"contas/internal/amqp"
	"contas/internal/clock"
	"contas/internal/config"
	apphttp "contas/internal/http"
	applog "contas/internal/log"
	"contas/internal/services"
	"contas/internal/storage"
	"contas/internal/storage/memory"
)

func main() {
	// Load .env for local development; in containers the environment is
	// already populated.
	_ = godotenv.Load()

	logger := applog.New(applog.FromEnv("contas"))
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	clk, err := clock.NewCivil(cfg.Timezone)
	if err != nil {
		logger.Error("Failed to load timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	var repo storage.Repository
	switch cfg.DataBackend {
	case "memory":
		repo = memory.New()
		logger.Info("Initialized memory backend")
	default:
		sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		repo = sqliteRepo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	}

	// AMQP is optional: without it transactions still persist, they just
	// never reach the spreadsheet mirror.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
			amqpClient = nil
		} else {
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - transactions will not sync to the spreadsheet mirror")
	}

	txService := services.NewTransactionService(repo, amqpClient)
	defer txService.Close()

	srv := apphttp.NewServer(":"+cfg.Port, repo, txService, clk)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting contas server", "port", cfg.Port, "backend", cfg.DataBackend, "timezone", cfg.Timezone)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
