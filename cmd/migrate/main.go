package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"mathrent/internal/config"
	"mathrent/internal/infrastructure/db"
	"mathrent/internal/infrastructure/logging"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	flag.Parse()

	cfg := config.Load()
	log, err := logging.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *down > 0 {
		if err := db.MigrateDown(cfg.MySQLDSN(), *down); err != nil {
			log.Fatal("migrate down", zap.Error(err))
		}
		log.Info("migrated down", zap.Int("steps", *down))
		return
	}
	if err := db.MigrateUp(cfg.MySQLDSN()); err != nil {
		log.Fatal("migrate up", zap.Error(err))
	}
	log.Info("migrated up")
}
