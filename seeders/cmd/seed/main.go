package main

import (
	"context"
	"flag"
	"os"

	"car-rental/pkg/config"
	"car-rental/pkg/database/postgresql"
	applogger "car-rental/pkg/logger"
	"car-rental/seeders"

	"go.uber.org/zap"
)

func main() {
	runAdmin := flag.Bool("admin", false, "create the first administrator")
	runCars := flag.Bool("cars", false, "insert the demo fleet")
	runAll := flag.Bool("all", false, "run every seeder")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		panic(err)
	}
	logger := applogger.NewLogger(cfg.Log.Level, "")
	defer logger.Sync()

	if !*runAdmin && !*runCars && !*runAll {
		flag.PrintDefaults()
		return
	}

	ctx := context.Background()
	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := postgresql.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	s := seeders.New(pool, logger)
	admin := seeders.AdminCredentials{
		Name:     getEnv("ADMIN_NAME", "Admin"),
		Surname:  getEnv("ADMIN_SURNAME", "Admin"),
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}

	if *runAll {
		if err := s.SeedAll(ctx, admin); err != nil {
			logger.Fatal("seeding failed", zap.Error(err))
		}
		logger.Info("seeding finished")
		return
	}
	if *runAdmin {
		if err := s.SeedAdmin(ctx, admin); err != nil {
			logger.Fatal("admin seeder failed", zap.Error(err))
		}
	}
	if *runCars {
		if err := s.SeedCars(ctx); err != nil {
			logger.Fatal("car seeder failed", zap.Error(err))
		}
	}
	logger.Info("seeding finished")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
