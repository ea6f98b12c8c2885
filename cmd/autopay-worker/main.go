package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"contas/internal/amqp"
	"contas/internal/clock"
	"contas/internal/config"
	applog "contas/internal/log"
	"contas/internal/services"
	"contas/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.FromEnv("autopay-worker"))
	applog.SetDefault(logger)

	logger.Info("Starting autopay-worker")

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

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Marked-paid income flows through the transaction service so the
	// spreadsheet mirror hears about it like any other update.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
			amqpClient = nil
		}
	} else {
		logger.Info("AMQP disabled - autopay updates will not sync to the spreadsheet mirror")
	}

	txService := services.NewTransactionService(repo, amqpClient)
	defer txService.Close()

	processor := services.NewAutopayProcessor(repo, txService, clk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Autopay processor configured", "interval", cfg.AutopayInterval, "sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.AutopayInterval)
	defer ticker.Stop()

	logger.Info("Running initial autopay pass...")
	if count, err := processor.ProcessDueIncome(ctx); err != nil {
		logger.Error("Initial autopay pass failed", "error", err)
	} else {
		logger.Info("Initial autopay pass complete", "income_marked_paid", count)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker stopped gracefully")
			return
		case <-ticker.C:
			count, err := processor.ProcessDueIncome(ctx)
			if err != nil {
				logger.Error("Autopay pass failed", "error", err)
				continue
			}
			if count > 0 {
				logger.Info("Autopay pass complete", "income_marked_paid", count)
			}
		}
	}
}
