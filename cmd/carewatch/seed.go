package main

import (
	"context"
	"fmt"
	"time"

	"carewatch/internal/compliance"
	"carewatch/internal/db"
	"carewatch/internal/seed"
	"carewatch/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with a demo worker roster",
	Action: func(cCtx *cli.Context) error {
		config, err := loadConfig(cCtx)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(config)
		ctx := context.Background()

		pool, err := db.Connect(ctx, config)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("Connected to database")

		if err := seed.SeedWorkers(ctx, store.NewWorkerRepository(pool), logger); err != nil {
			return err
		}

		loc, err := time.LoadLocation(config.MonitorTimezone)
		if err != nil {
			return fmt.Errorf("failed to load monitor timezone: %w", err)
		}

		today := compliance.NewClock(loc).Today()
		if err := seed.SeedDocuments(ctx, store.NewDocumentRepository(pool), today, logger); err != nil {
			return err
		}

		return nil
	},
}
