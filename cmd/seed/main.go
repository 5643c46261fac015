package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"pizzeria/internal/cache"
	"pizzeria/internal/config"
	"pizzeria/internal/db"
	"pizzeria/internal/logger"
	"pizzeria/internal/repository"
	"pizzeria/internal/service"
)

func main() {
	path := flag.String("catalog", envOr("SEED_CATALOG", "seed/menu.yaml"), "path to the YAML menu catalog")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	log := logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	log.Info("starting seed", zap.String("catalog", *path))

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal("open catalog", zap.Error(err))
	}
	defer f.Close()

	catalog, err := service.ParseCatalog(f)
	if err != nil {
		log.Fatal("read catalog", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("items", len(catalog.Menu)), zap.Bool("admin", catalog.Admin != nil))

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, log, cfg.LogLevel)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB, false, log); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	seeder := service.NewSeedService(
		repository.NewMenuRepository(gormDB),
		repository.NewProfileRepository(gormDB),
		cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB),
		log,
	)

	result, err := seeder.Seed(context.Background(), catalog)
	if err != nil {
		log.Fatal("seed", zap.Error(err))
	}

	log.Info("seed completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Bool("admin", result.Admin),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
