package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"denguedash/internal/amqp"
	"denguedash/internal/config"
)

// auditTotals accumulates counts over consumed record-added events.
type auditTotals struct {
	mu      sync.Mutex
	records int
	cases   int
	deaths  int
}

func (a *auditTotals) add(msg *amqp.RecordAddedMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records++
	a.cases += msg.Cases
	a.deaths += msg.Deaths
}

func (a *auditTotals) snapshot() (int, int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.records, a.cases, a.deaths
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting denguedash-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	totals := &auditTotals{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeRecordAdded(gctx, func(msg *amqp.RecordAddedMessage) error {
			totals.add(msg)
			logger.Info("Record added",
				"region", msg.Region,
				"year", msg.Year,
				"month", msg.Month,
				"cases", msg.Cases,
				"deaths", msg.Deaths,
				"session_id", msg.SessionID)
			return nil
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				records, cases, deaths := totals.snapshot()
				logger.Info("Audit totals",
					"records", records,
					"cases", cases,
					"deaths", deaths)
			}
		}
	})

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	case <-gctx.Done():
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
