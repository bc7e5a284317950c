package main

import (
	"context"
	"flag"
	"os"

	pricingrepo "checkout_backend/internal/pricing/repository"
	pricingservice "checkout_backend/internal/pricing/service"
	"checkout_backend/internal/pricing/seed"
	"checkout_backend/migrations"
	"checkout_backend/platform/config"
	"checkout_backend/platform/db"
	"checkout_backend/platform/logger"
)

func main() {
	fixturesPath := flag.String("fixtures", "", "YAML fixtures file; the built-in demo catalogue when empty")
	migrate := flag.Bool("migrate", true, "apply database migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting catalogue seed", "fixtures", *fixturesPath)

	ctx := context.Background()

	if *migrate {
		if err := db.RunMigrations(ctx, cfg, migrations.FS); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	fixtures, err := loadFixtures(*fixturesPath)
	if err != nil {
		log.Error("failed to load fixtures", "error", err)
		panic("failed to load fixtures: " + err.Error())
	}

	catalog := pricingservice.NewCatalog(pricingrepo.New(pool), log)
	if _, err := catalog.Seed(ctx, fixtures); err != nil {
		log.Error("failed to seed catalogue", "error", err)
		panic("failed to seed catalogue: " + err.Error())
	}
}

func loadFixtures(path string) (seed.Fixtures, error) {
	if path == "" {
		return seed.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return seed.Fixtures{}, err
	}
	defer f.Close()
	return seed.Parse(f)
}
