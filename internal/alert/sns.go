package alert

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"carewatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSNSSubjectLen = 100

// SNSClient is the subset of *sns.Client used here.
type SNSClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes alerts to a topic. Subscribers (email, SMS, the mobile
// app) filter on the recipient message attribute.
type SNSSender struct {
	client    SNSClient
	topicARN  string
	portalURL string
}

func NewSNSSender(client SNSClient, topicARN, portalURL string) *SNSSender {
	return &SNSSender{client: client, topicARN: topicARN, portalURL: portalURL}
}

func (s *SNSSender) SendExpiryAlert(ctx context.Context, alert types.ExpiryAlert) error {
	if err := validate(alert); err != nil {
		return err
	}

	subj := snsSubject(subject(alert))

	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String(subj),
		Message:  aws.String(body(alert, s.portalURL)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"recipient": {
				DataType:    aws.String("String"),
				StringValue: aws.String(alert.RecipientAddress),
			},
			"category": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(alert.Category)),
			},
			"days_until_expiry": {
				DataType:    aws.String("Number"),
				StringValue: aws.String(strconv.Itoa(alert.DaysUntilExpiry)),
			},
		},
	}

	_, err := s.client.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish alert to sns: %w", err)
	}

	return nil
}

// snsSubject folds s into the printable ASCII SNS accepts for subjects:
// accents are dropped, other non-ASCII runes become '?', and the result is
// cut to the length limit.
func snsSubject(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}

	var b strings.Builder
	for _, r := range s {
		if b.Len() == maxSNSSubjectLen {
			break
		}
		switch {
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
