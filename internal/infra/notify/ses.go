package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"layanan_publik_tracker/internal/domain/notification"
)

// sesAPI is the subset of the SES client the sender needs. Narrowed for tests.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends HTML email through AWS SES.
type SESSender struct {
	client sesAPI
	from   string
}

func NewSESSender(ctx context.Context, region, from string) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESSender{client: ses.NewFromConfig(cfg), from: from}, nil
}

// NewSESSenderWithClient builds a sender around an existing client. Used by tests.
func NewSESSenderWithClient(client sesAPI, from string) *SESSender {
	return &SESSender{client: client, from: from}
}

func (s *SESSender) Channel() notification.Channel {
	return notification.ChannelEmail
}

func (s *SESSender) Send(ctx context.Context, msg notification.Message) (string, error) {
	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send failed: %w", err)
	}
	if out.MessageId == nil {
		return "unknown", nil
	}
	return *out.MessageId, nil
}
