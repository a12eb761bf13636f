package alert

import (
	"context"
	"errors"
	"time"

	"carewatch/pkg/types"

	"github.com/aws/smithy-go"
	"github.com/sethvargo/go-retry"
)

const defaultRetryBase = 500 * time.Millisecond

// RetryingSender retries transient transport failures with exponential
// backoff. The caller's context bounds the total time spent.
type RetryingSender struct {
	next       Sender
	maxRetries uint64
	base       time.Duration
}

func WithRetry(next Sender, maxRetries uint64, base time.Duration) *RetryingSender {
	if base <= 0 {
		base = defaultRetryBase
	}
	return &RetryingSender{next: next, maxRetries: maxRetries, base: base}
}

func (s *RetryingSender) SendExpiryAlert(ctx context.Context, alert types.ExpiryAlert) error {
	backoff := retry.WithMaxRetries(s.maxRetries, retry.WithJitterPercent(10, retry.NewExponential(s.base)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.next.SendExpiryAlert(ctx, alert)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNoRecipient) || errors.Is(err, context.Canceled) || isPermanent(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}

var throttlingCodes = map[string]struct{}{
	"Throttling":               {},
	"ThrottlingException":      {},
	"Throttled":                {},
	"TooManyRequestsException": {},
}

// isPermanent reports whether AWS rejected the request itself. Sending it
// again cannot succeed, throttling aside.
func isPermanent(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) || apiErr.ErrorFault() != smithy.FaultClient {
		return false
	}
	_, throttled := throttlingCodes[apiErr.ErrorCode()]
	return !throttled
}
