package services

import (
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
)

// SESConfig holds the Amazon SES mailer settings.
type SESConfig struct {
	Region string
	From   string
	AppURL string
}

// SESMailer sends password reset emails through Amazon SES. It is
// selected over the SMTP mailer via the MAILER_DRIVER config.
type SESMailer struct {
	client sesiface.SESAPI
	cfg    SESConfig
}

// NewSESMailer creates an SES-backed mailer using the default AWS
// credential chain.
func NewSESMailer(cfg SESConfig) (*SESMailer, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &SESMailer{
		client: ses.New(sess),
		cfg:    cfg,
	}, nil
}

// SendPasswordResetEmail sends a password reset email via SES.
func (m *SESMailer) SendPasswordResetEmail(toEmail, resetToken, username string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.AppURL, resetToken)
	body := buildPasswordResetEmailBody(username, resetLink)

	input := &ses.SendEmailInput{
		Source: aws.String(m.cfg.From),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(toEmail)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String("Reset Your Password - ExamStack"),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
		},
	}

	if _, err := m.client.SendEmail(input); err != nil {
		return fmt.Errorf("SES send failed: %w", err)
	}

	log.Printf("Password reset email sent successfully to: %s", toEmail)
	return nil
}
