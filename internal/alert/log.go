package alert

import (
	"context"

	"carewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

// LogSender writes alerts to the log instead of delivering them. It is the
// default transport outside production.
type LogSender struct {
	logger logrus.FieldLogger
}

func NewLogSender(logger logrus.FieldLogger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendExpiryAlert(ctx context.Context, alert types.ExpiryAlert) error {
	if err := validate(alert); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"recipient":         alert.RecipientAddress,
		"recipient_name":    alert.RecipientName,
		"document":          alert.DocumentName,
		"category":          alert.Category,
		"days_until_expiry": alert.DaysUntilExpiry,
	}).Info(subject(alert))

	return nil
}
