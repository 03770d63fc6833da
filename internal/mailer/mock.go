package mailer

import (
	"context"
	"log"
)

// MockMailer implements the Mailer interface by logging messages to stdout.
// Used whenever no Resend API key is configured.
type MockMailer struct{}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, html string) error {
	log.Printf("📨 [MockMailer] To: %s — %s", to, subject)
	return nil
}
