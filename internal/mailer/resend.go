package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// ResendMailer sends notification emails through the Resend API.
type ResendMailer struct {
	client    *resend.Client
	fromEmail string
}

func NewResendMailer(apiKey, fromEmail string) *ResendMailer {
	return &ResendMailer{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.fromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := m.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("📧 Email sent successfully (ID: %s) — To: %s", sent.Id, to)
	return nil
}
