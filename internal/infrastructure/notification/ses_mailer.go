package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	infraconfig "github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure SESMailer implements Mailer
var _ Mailer = (*SESMailer)(nil)

// SESMailer sends email through AWS SES.
// Credentials are resolved through the default AWS credential chain.
type SESMailer struct {
	client *ses.Client
	from   string
	logger *zap.Logger
}

// NewSESMailer creates a new SESMailer from configuration
func NewSESMailer(cfg *infraconfig.EmailConfig, logger *zap.Logger) (*SESMailer, error) {
	if cfg == nil {
		return nil, errors.New("email configuration is required")
	}
	if cfg.FromAddress == "" {
		return nil, errors.New("email from address is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &SESMailer{
		client: ses.NewFromConfig(awsCfg),
		from:   from,
		logger: logger,
	}, nil
}

// Send sends a single email message through SES
func (m *SESMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if to == "" {
		return errors.New("recipient address is required")
	}

	input := &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(htmlBody),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(textBody),
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		m.logger.Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// NopMailer discards all messages. Used when email is disabled.
type NopMailer struct{}

// Send discards the message
func (NopMailer) Send(context.Context, string, string, string, string) error {
	return nil
}

var _ Mailer = NopMailer{}
