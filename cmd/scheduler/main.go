package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout_backend/internal/adapters/storage"
	purchaserepo "checkout_backend/internal/purchases/repository"
	purchaseservice "checkout_backend/internal/purchases/service"
	"checkout_backend/internal/scheduler"
	"checkout_backend/platform/config"
	"checkout_backend/platform/db"
	"checkout_backend/platform/logger"
	"checkout_backend/platform/retry"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := retry.Do(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	// Worker-side ledger wiring (no HTTP handlers required).
	ledger := purchaseservice.New(purchaserepo.New(pool), log)

	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := retry.Do(ctx, log, "ensure receipts bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketReceipts())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		ledger.SetReceiptStore(storageSvc, cfg.GetMinioBucketReceipts())
	}

	worker, err := scheduler.NewWorker(cfg, ledger, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	if err := worker.Run(ctx); err != nil {
		panic("scheduler worker failed: " + err.Error())
	}
}
