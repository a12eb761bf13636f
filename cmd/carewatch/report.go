package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/k0kubun/pp/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

var reportCommand = &cli.Command{
	Name:  "report",
	Usage: "Print a compliance summary for a date range",
	Flags: []cli.Flag{
		&cli.TimestampFlag{
			Name:     "start",
			Usage:    "First day of the range (YYYY-MM-DD)",
			Layout:   time.DateOnly,
			Required: true,
		},
		&cli.TimestampFlag{
			Name:   "end",
			Usage:  "Last day of the range (YYYY-MM-DD), defaults to today",
			Layout: time.DateOnly,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print JSON instead of a pretty dump",
		},
	},
	Action: func(cCtx *cli.Context) error {
		ctx := context.Background()

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

		start := *cCtx.Timestamp("start")
		end := engine.clock.Today()
		if t := cCtx.Timestamp("end"); t != nil {
			end = *t
		}

		summary, err := engine.reporter.Summary(ctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to build compliance report: %w", err)
		}

		if cCtx.Bool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		_, err = pp.Println(summary)
		return err
	},
}
