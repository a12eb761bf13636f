package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

var scanCommand = &cli.Command{
	Name:  "scan",
	Usage: "Run one expiry scan and reminder dispatch, then exit",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "fail-on-error",
			Usage: "Exit non-zero when any reminder failed to send",
		},
	},
	Action: func(cCtx *cli.Context) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		config, err := loadConfig(cCtx)
		if err != nil {
			return err
		}

		logger := newLogger(config)

		engine, err := newEngine(ctx, config, logger, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer engine.Close()

		report, err := engine.monitor.RunScan(ctx)
		if err != nil {
			return fmt.Errorf("failed to run compliance scan: %w", err)
		}

		if report.ScanErr != nil {
			return fmt.Errorf("expiry scan failed: %w", report.ScanErr)
		}
		if cCtx.Bool("fail-on-error") && report.Failed() > 0 {
			return fmt.Errorf("%d of %d reminders failed", report.Failed(), len(report.Results))
		}

		return nil
	},
}
