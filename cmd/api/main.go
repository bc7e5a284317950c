package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout_backend/internal/adapters/payment"
	"checkout_backend/internal/adapters/storage"
	"checkout_backend/internal/events"
	apphttp "checkout_backend/internal/http"
	"checkout_backend/internal/http/router"
	"checkout_backend/internal/pricing"
	"checkout_backend/internal/pricing/cache"
	"checkout_backend/internal/purchases"
	"checkout_backend/internal/scheduler"
	"checkout_backend/migrations"
	"checkout_backend/platform/config"
	"checkout_backend/platform/db"
	"checkout_backend/platform/logger"
	"checkout_backend/platform/metrics"
	"checkout_backend/platform/retry"
	"checkout_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if cfg.MigrationsEnabled {
		if err := retry.Do(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, migrations.FS)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	pricingMetrics := metrics.NewPricing(prometheus.DefaultRegisterer)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	pricingModule := pricing.NewModule(
		pool,
		payment.NewSandboxPayPal(log),
		payment.NewSandboxStripe(log),
		pricingMetrics,
		val,
		cfg,
		log,
	)
	pricingModule.SetEventBus(eventBus)

	if closeCache := initQuoteCache(ctx, cfg, log, pricingModule); closeCache != nil {
		defer closeCache()
	}

	purchasesModule := purchases.NewModule(pool, val, log)
	purchasesModule.RegisterHandlers(eventBus)

	if storageSvc := initReceiptStorage(ctx, cfg, log); storageSvc != nil {
		purchasesModule.Service().SetReceiptStore(storageSvc, cfg.GetMinioBucketReceipts())
	}

	if client, closeClient := initPurchaseQueue(cfg, log); client != nil {
		purchasesModule.Service().SetEnqueuer(client)
		defer closeClient()
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  db.NewPoolAdapter(pool),
		Metrics: metrics.Handler(),
		Modules: []apphttp.Module{
			pricingModule,
			purchasesModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	// Let in-flight purchase events reach the ledger before the pool closes.
	eventBus.Wait()
	log.Info("server stopped")
}

func initQuoteCache(ctx context.Context, cfg *config.Config, log *logger.Logger, module *pricing.Module) func() {
	if !cfg.IsQuoteCacheEnabled() {
		log.Info("quote cache disabled")
		return nil
	}

	quoteCache, err := cache.NewFromConfig(cfg)
	if err != nil {
		log.Error("failed to initialize quote cache", "error", err)
		return nil
	}
	if err := quoteCache.Ping(ctx); err != nil {
		log.Warn("quote cache unreachable; continuing without it", "error", err)
		_ = quoteCache.Close()
		return nil
	}

	module.SetQuoteCache(quoteCache)
	log.Info("quote cache enabled", "ttl", cfg.GetQuoteCacheTTL())
	return func() { _ = quoteCache.Close() }
}

func initReceiptStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.StorageService {
	if !cfg.IsMinIOEnabled() {
		log.Info("MINIO_ENDPOINT not configured; purchase receipts disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	bucket := cfg.GetMinioBucketReceipts()
	if err := retry.Do(ctx, log, "ensure receipts bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "receiptsBucket", bucket)
	return storageSvc
}

func initPurchaseQueue(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; purchases are recorded inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}
