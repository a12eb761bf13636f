package types

import "time"

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Postgres pool
	DatabaseMaxConns     int32         `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMinConns     int32         `envconfig:"DATABASE_MIN_CONNS" default:"0"`
	DatabaseConnIdleTime time.Duration `envconfig:"DATABASE_CONN_IDLE_TIME" default:"15m"`
	DatabaseConnLifetime time.Duration `envconfig:"DATABASE_CONN_LIFETIME" default:"45m"`

	// Cognito issuer for bearer tokens on the API. Auth is disabled when empty.
	CognitoIssuerURL string `envconfig:"COGNITO_ISSUER_URL"`

	// Monitor loop
	MonitorInterval time.Duration `envconfig:"MONITOR_INTERVAL" default:"24h"`
	MonitorTimezone string        `envconfig:"MONITOR_TIMEZONE" default:"UTC"`

	// Outbound alerts: log, ses or sns
	AlertTransport  string        `envconfig:"ALERT_TRANSPORT" default:"log"`
	AlertTimeout    time.Duration `envconfig:"ALERT_TIMEOUT" default:"10s"`
	AlertMaxRetries uint64        `envconfig:"ALERT_MAX_RETRIES" default:"2"`
	SESFromAddress  string        `envconfig:"SES_FROM_ADDRESS"`
	SNSTopicARN     string        `envconfig:"SNS_TOPIC_ARN"`
	PortalBaseURL   string        `envconfig:"PORTAL_BASE_URL" default:"http://localhost:3000"`

	ReportConcurrency int `envconfig:"REPORT_CONCURRENCY" default:"8"`
}

const (
	AlertTransportLog = "log"
	AlertTransportSES = "ses"
	AlertTransportSNS = "sns"
)
