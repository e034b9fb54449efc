package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"assignment_service/internal/config"
	"assignment_service/internal/db"
	"assignment_service/internal/logging"
)

func main() {
	ctx := context.Background()

	steps := pflag.IntP("steps", "n", 1, "number of migrations to roll back with down")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [flags] up|down|version\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.New()
	if err != nil {
		panic(fmt.Sprintf("cannot create config: %v", err))
	}
	logger, err := logging.NewFromMode(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	m, err := db.NewMigrator(cfg.MigrationsPath, cfg.PostgresURL)
	if err != nil {
		logger.Fatal(ctx, "cannot init migrations", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn(ctx, "failed to close migrator", zap.Error(err))
		}
	}()

	switch cmd := pflag.Arg(0); cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down(*steps)
	case "version":
		version, dirty, verr := m.Version()
		if verr == nil {
			logger.Info(ctx, "schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		err = verr
	default:
		pflag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal(ctx, "migration failed", zap.Error(err))
	}
	logger.Info(ctx, "migration finished", zap.String("command", pflag.Arg(0)))
}
