package main

import (
	"context"
	"fmt"
	"time"

	"carewatch/internal/alert"
	"carewatch/internal/compliance"
	"carewatch/internal/db"
	"carewatch/internal/metrics"
	"carewatch/internal/store"
	"carewatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// engine is the compliance core wired to Postgres and the configured alert
// transport.
type engine struct {
	pool *pgxpool.Pool

	workers     *store.WorkerRepository
	documents   *store.DocumentRepository
	dispatchLog *store.DispatchLogRepository

	clock     compliance.Clock
	evaluator *compliance.Evaluator
	monitor   *compliance.Monitor
	reporter  *compliance.Reporter
}

func newEngine(ctx context.Context, cfg *types.Config, logger *logrus.Logger, reg prometheus.Registerer) (*engine, error) {
	loc, err := time.LoadLocation(cfg.MonitorTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load monitor timezone: %w", err)
	}

	sender, err := newAlertSender(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New(reg)
	clock := compliance.NewClock(loc)

	workers := store.NewWorkerRepository(pool)
	documents := store.NewDocumentRepository(pool)
	notifications := store.NewNotificationRepository(pool)
	dispatchLog := store.NewDispatchLogRepository(pool)

	evaluator := compliance.NewEvaluator(documents, clock, logger.WithField("component", "evaluator"), m)
	scanner := compliance.NewScanner(documents, clock, logger.WithField("component", "scanner"))
	dispatcher := compliance.NewDispatcher(
		workers,
		notifications,
		dispatchLog,
		sender,
		clock,
		cfg.AlertTimeout,
		logger.WithField("component", "dispatcher"),
		m,
	)
	monitor := compliance.NewMonitor(scanner, dispatcher, clock, logger.WithField("component", "monitor"), m, compliance.MonitorOptions{
		Interval: cfg.MonitorInterval,
		Location: loc,
	})
	reporter := compliance.NewReporter(workers, documents, evaluator, clock, cfg.ReportConcurrency, logger.WithField("component", "reporter"))

	return &engine{
		pool:        pool,
		workers:     workers,
		documents:   documents,
		dispatchLog: dispatchLog,
		clock:       clock,
		evaluator:   evaluator,
		monitor:     monitor,
		reporter:    reporter,
	}, nil
}

func (e *engine) Close() {
	e.pool.Close()
}

func newAlertSender(ctx context.Context, cfg *types.Config, logger *logrus.Logger) (alert.Sender, error) {
	var sender alert.Sender

	switch cfg.AlertTransport {
	case types.AlertTransportSES, types.AlertTransportSNS:
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		if cfg.AlertTransport == types.AlertTransportSES {
			sender = alert.NewSESSender(sesv2.NewFromConfig(awsConfig), cfg.SESFromAddress, cfg.PortalBaseURL)
		} else {
			sender = alert.NewSNSSender(sns.NewFromConfig(awsConfig), cfg.SNSTopicARN, cfg.PortalBaseURL)
		}
	default:
		return alert.NewLogSender(logger.WithField("component", "alert")), nil
	}

	return alert.WithRetry(sender, cfg.AlertMaxRetries, 0), nil
}
