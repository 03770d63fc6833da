package mailer

import "context"

// Mailer delivers a notification by email. In-app notification documents are
// the record of truth; email delivery is best-effort and failures are only
// logged.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}
