package alert

import (
	"context"
	"fmt"

	"carewatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESClient is the subset of *sesv2.Client used here.
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESSender struct {
	client    SESClient
	from      string
	portalURL string
}

func NewSESSender(client SESClient, from, portalURL string) *SESSender {
	return &SESSender{client: client, from: from, portalURL: portalURL}
}

func (s *SESSender) SendExpiryAlert(ctx context.Context, alert types.ExpiryAlert) error {
	if err := validate(alert); err != nil {
		return err
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{alert.RecipientAddress},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{
					Data:    aws.String(subject(alert)),
					Charset: aws.String("UTF-8"),
				},
				Body: &sestypes.Body{
					Text: &sestypes.Content{
						Data:    aws.String(body(alert, s.portalURL)),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
		EmailTags: []sestypes.MessageTag{
			{Name: aws.String("category"), Value: aws.String(string(alert.Category))},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via ses: %w", err)
	}

	return nil
}
