package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"assignment_service/internal/bootstrap"
	"assignment_service/internal/config"
	"assignment_service/internal/db"
	"assignment_service/internal/logging"
	"assignment_service/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		panic(fmt.Sprintf("cannot create config: %v", err))
	}

	path := pflag.StringP("file", "f", cfg.UsersCSVPath, "CSV file with first_name,last_name,email,password rows")
	pflag.Parse()

	logger, err := logging.NewFromMode(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatal(ctx, "cannot open users csv", zap.String("path", *path), zap.Error(err))
	}
	defer f.Close()

	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "cannot connect to database", zap.Error(err))
	}
	defer pool.Close()

	importer := bootstrap.NewImporter(repository.NewUserRepository(pool), cfg.BcryptCost, logger)
	if _, err := importer.Import(ctx, f); err != nil {
		logger.Fatal(ctx, "user import failed", zap.Error(err))
	}
}
