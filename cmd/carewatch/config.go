package main

import (
	"context"
	"fmt"
	"time"

	"carewatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// loadConfig reads PREFIX_NAME, falling back to the bare NAME.
func loadConfig(cCtx *cli.Context) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(cCtx.String("env-prefix"), c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	if c.DatabaseMinConns < 0 || c.DatabaseMaxConns < 0 || (c.DatabaseMaxConns > 0 && c.DatabaseMinConns > c.DatabaseMaxConns) {
		return nil, fmt.Errorf("DATABASE_MIN_CONNS must be between 0 and DATABASE_MAX_CONNS")
	}

	switch c.AlertTransport {
	case types.AlertTransportLog:
	case types.AlertTransportSES:
		if c.SESFromAddress == "" {
			return nil, fmt.Errorf("set SES_FROM_ADDRESS when ALERT_TRANSPORT=ses")
		}
	case types.AlertTransportSNS:
		if c.SNSTopicARN == "" {
			return nil, fmt.Errorf("set SNS_TOPIC_ARN when ALERT_TRANSPORT=sns")
		}
	default:
		return nil, fmt.Errorf("unknown ALERT_TRANSPORT %q", c.AlertTransport)
	}

	if _, err := time.LoadLocation(c.MonitorTimezone); err != nil {
		return nil, fmt.Errorf("invalid MONITOR_TIMEZONE %q: %w", c.MonitorTimezone, err)
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func newLogger(cfg *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
